// cmd/dbtools/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/brandkit/internal/db"
	"github.com/codr1/brandkit/internal/scheduler"
)

const legacyBatchSize = 100

func main() {
	var (
		dbPath  = flag.String("db", "", "Path to SQLite database")
		command = flag.String("command", "", "Command to run (up, down, version, legacy)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dbPath == "" || *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	if err := run(*dbPath, *command); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration command failed")
	}
}

func run(dbPath, command string) error {
	if command == "legacy" {
		return migrateLegacy(dbPath)
	}

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		sqlDB.Close()
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up: %w", err)
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down: %w", err)
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}

// migrateLegacy runs one legacy theme sweep outside the server's schedule.
func migrateLegacy(dbPath string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := scheduler.MigrateLegacyThemes(ctx, database.Queries, legacyBatchSize)
	if err != nil {
		return err
	}
	log.Info().
		Int("scanned", result.Scanned).
		Int("migrated", result.Migrated).
		Int("failed", result.Failed).
		Int("diagnostics", result.Diagnostics).
		Msg("Legacy theme sweep completed")
	return nil
}
