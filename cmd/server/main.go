// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/brandkit/internal/api/themes"
	"github.com/codr1/brandkit/internal/applier"
	"github.com/codr1/brandkit/internal/config"
	"github.com/codr1/brandkit/internal/db"
	"github.com/codr1/brandkit/internal/ratelimit"
	"github.com/codr1/brandkit/internal/scheduler"
	"github.com/codr1/brandkit/internal/telemetry"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}
	log.Warn().Str("path", path).Msg("Config file not found, using defaults")
	cfg = config.Default()
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	if port := getEnvAsInt("PORT", 0); port > 0 {
		cfg.App.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	cfg, err := loadConfig(getEnv("CONFIG_PATH", "config/app.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment, cfg.Features.EnableDebug)
	shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	library, err := database.SeedSystemThemes(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed system themes")
	}

	metrics, err := telemetry.New(ctx, telemetry.Config{
		Enabled:        cfg.Features.EnableMetrics,
		Endpoint:       cfg.Features.MetricsEndpoint,
		Insecure:       cfg.Features.MetricsInsecure,
		ServiceVersion: version,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	limiter := ratelimit.New(&ratelimit.Config{
		MaxPerTenant: cfg.Preview.MaxPerTenant,
		MaxPerIP:     cfg.Preview.MaxPerIP,
	})
	defer limiter.Close()

	registry := applier.NewRegistry()
	opts := themes.Options{
		Registry:   registry,
		Metrics:    metrics,
		Limiter:    limiter,
		FontPair:   cfg.Themes.DefaultFontPair,
		Density:    cfg.Themes.DefaultDensity,
		DarkMode:   cfg.Themes.DarkMode,
		TrustProxy: cfg.Preview.TrustProxy,
	}
	if defaultTheme, ok := library.Default(); ok {
		opts.DefaultTheme = &defaultTheme
	}
	themes.InitHandlers(database.Queries, opts)

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	err = scheduler.RegisterLegacyMigrationJob(database, cfg.Themes.MigrationCron, func(result scheduler.MigrationResult) {
		// Migrated sources compile differently, so drop fragments and let
		// the next stylesheet request re-apply.
		for _, id := range registry.Scopes() {
			registry.Remove(id)
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register legacy theme migration job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	server := newServer(cfg)

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().
			Int("port", cfg.App.Port).
			Int("system_themes", len(library.Themes)).
			Str("default_theme", library.DefaultName).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to flush metrics")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
