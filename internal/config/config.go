// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/codr1/brandkit/internal/spacing"
	"github.com/codr1/brandkit/internal/typography"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver" validate:"required"`
	Filename string `yaml:"filename"`
}

// ThemesConfig.MigrationCron schedules the legacy theme sweep. Empty disables it.
type ThemesConfig struct {
	MigrationCron   string `yaml:"migration_cron" validate:"omitempty,cron_spec"`
	DarkMode        bool   `yaml:"dark_mode"`
	DefaultFontPair string `yaml:"default_font_pair" validate:"omitempty,font_pair"`
	DefaultDensity  string `yaml:"default_density" validate:"omitempty,density"`
}

// PreviewConfig throttles preview compiles. Zero limits use the limiter defaults.
type PreviewConfig struct {
	MaxPerTenant int  `yaml:"max_per_tenant" validate:"min=0"`
	MaxPerIP     int  `yaml:"max_per_ip" validate:"min=0"`
	TrustProxy   bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name" validate:"required"`
		Environment string `yaml:"environment" validate:"omitempty,oneof=development staging production test"`
		Port        int    `yaml:"port" validate:"required,min=1,max=65535"`
		BaseURL     string `yaml:"base_url" validate:"omitempty,url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Themes ThemesConfig `yaml:"themes"`

	Preview PreviewConfig `yaml:"preview"`

	Features struct {
		EnableMetrics   bool   `yaml:"enable_metrics"`
		MetricsEndpoint string `yaml:"metrics_endpoint" validate:"required_if=EnableMetrics true"`
		MetricsInsecure bool   `yaml:"metrics_insecure"`
		EnableDebug     bool   `yaml:"enable_debug"`
	} `yaml:"features"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Same five-field parser gocron uses for CronJob.
		_ = v.RegisterValidation("cron_spec", func(fl validator.FieldLevel) bool {
			_, err := cron.ParseStandard(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("font_pair", func(fl validator.FieldLevel) bool {
			_, ok := typography.PairByName(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("density", func(fl validator.FieldLevel) bool {
			_, _, ok := spacing.Density(fl.Field().String())
			return ok
		})

		validateInst = v
	})

	return validateInst
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "brandkit"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "build/db/brandkit.db"
	cfg.Themes.MigrationCron = "*/15 * * * *"
	cfg.Themes.DarkMode = true
	cfg.Themes.DefaultFontPair = typography.DefaultFontPair
	cfg.Themes.DefaultDensity = spacing.DefaultDensity
	cfg.Preview.MaxPerTenant = 120
	cfg.Preview.MaxPerIP = 60
	return &cfg
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.Features.MetricsEndpoint = endpoint
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s fails %q validation", fe.Namespace(), fe.Tag())
		}
		return err
	}

	// Validate based on database driver
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return nil
}
