// internal/scheduler/migration.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/brandkit/internal/db"
	"github.com/codr1/brandkit/internal/db/store"
	"github.com/codr1/brandkit/internal/models"
)

const (
	LegacyMigrationJobName = "legacy-theme-migration"
	legacyMigrationBatch   = 100
	legacyMigrationTimeout = 2 * time.Minute
)

type legacyMigrationQueries interface {
	ListLegacyThemes(ctx context.Context, arg store.ListLegacyThemesParams) ([]store.Theme, error)
	UpdateThemeSource(ctx context.Context, arg store.UpdateThemeSourceParams) (int64, error)
}

// MigrationResult summarises one sweep.
type MigrationResult struct {
	Scanned     int
	Migrated    int
	Failed      int
	Diagnostics int
}

// MigrateLegacyThemes rewrites every stored legacy theme into token form.
// Rows that cannot be decoded are logged and left as they are. A row changed
// by someone else between read and write is not overwritten.
func MigrateLegacyThemes(ctx context.Context, q legacyMigrationQueries, batchSize int64) (MigrationResult, error) {
	logger := log.Ctx(ctx)
	if batchSize <= 0 {
		batchSize = legacyMigrationBatch
	}

	var result MigrationResult
	var afterID int64
	for {
		rows, err := q.ListLegacyThemes(ctx, store.ListLegacyThemesParams{AfterID: afterID, Limit: batchSize})
		if err != nil {
			return result, fmt.Errorf("list legacy themes: %w", err)
		}

		for _, row := range rows {
			afterID = row.ID
			result.Scanned++

			theme, err := models.ThemeFromDB(row)
			if err != nil {
				result.Failed++
				logger.Warn().Err(err).Int64("theme_id", row.ID).Msg("Skipping undecodable legacy theme")
				continue
			}

			migrated, diags, ok := theme.Migrated()
			if !ok {
				continue
			}
			result.Diagnostics += len(diags)
			for _, diag := range diags {
				logger.Debug().
					Int64("theme_id", row.ID).
					Str("path", diag.Path).
					Str("kind", string(diag.Kind)).
					Msg(diag.Message)
			}

			source, err := migrated.SourceJSON()
			if err != nil {
				result.Failed++
				logger.Warn().Err(err).Int64("theme_id", row.ID).Msg("Failed to encode migrated theme")
				continue
			}

			changed, err := q.UpdateThemeSource(ctx, store.UpdateThemeSourceParams{
				ID:           row.ID,
				SourceKind:   store.SourceKindTokens,
				SourceJSON:   source,
				ExpectedKind: store.SourceKindLegacy,
			})
			if err != nil {
				return result, fmt.Errorf("update theme %d: %w", row.ID, err)
			}
			if changed > 0 {
				result.Migrated++
			}
		}

		if int64(len(rows)) < batchSize {
			return result, nil
		}
	}
}

// RegisterLegacyMigrationJob schedules the sweep on cronExpr. An empty
// expression leaves the job unregistered. onMigrated, when set, runs after a
// sweep that rewrote at least one theme.
func RegisterLegacyMigrationJob(database *db.DB, cronExpr string, onMigrated func(MigrationResult)) error {
	if database == nil {
		return fmt.Errorf("legacy migration job requires database")
	}
	if cronExpr == "" {
		log.Info().Str("job_name", LegacyMigrationJobName).Msg("Legacy theme migration disabled")
		return nil
	}

	jobLogger := log.With().
		Str("component", "legacy_theme_migration_job").
		Str("job_name", LegacyMigrationJobName).
		Logger()

	_, err := AddJob(LegacyMigrationJobName, cronExpr, func() {
		result := runLegacyMigration(database.Queries, jobLogger)
		if result.Migrated > 0 && onMigrated != nil {
			onMigrated(result)
		}
	})
	return err
}

func runLegacyMigration(q legacyMigrationQueries, jobLogger zerolog.Logger) MigrationResult {
	ctx, cancel := context.WithTimeout(context.Background(), legacyMigrationTimeout)
	defer cancel()
	ctx = jobLogger.WithContext(ctx)

	result, err := MigrateLegacyThemes(ctx, q, legacyMigrationBatch)
	if err != nil {
		jobLogger.Error().Err(err).Int("migrated", result.Migrated).Msg("Legacy theme migration failed")
		return result
	}
	if result.Scanned == 0 {
		return result
	}
	jobLogger.Info().
		Int("scanned", result.Scanned).
		Int("migrated", result.Migrated).
		Int("failed", result.Failed).
		Int("diagnostics", result.Diagnostics).
		Msg("Legacy theme migration completed")
	return result
}
