// Package migrations provides idempotent database schema management.
//
// Executed migrations are tracked in a dedicated migrations table so each
// one runs exactly once. Tables that already exist are recorded without
// re-running their SQL, which makes startup safe against interrupted runs.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/database"
)

// Migration represents a single schema change, tracked by name.
type Migration struct {
	// Name is a unique identifier for the migration
	Name string
	// Description is a human-readable explanation of what the migration does
	Description string
	// TableName is the table affected by this migration, used for existence checks
	TableName string
	// RunSQL executes the migration SQL within a transaction
	RunSQL func(ctx context.Context, tx *sql.Tx) error
}

// Migrator handles database migrations
type Migrator struct {
	db *database.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// RunMigrations runs all pending database migrations. It is safe to call
// on every startup.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Info().Msg("Running database migrations")
	startTime := time.Now()

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	migrationsRun := 0
	for _, migration := range GetMigrations() {
		if executed[migration.Name] {
			continue
		}

		exists, err := m.tableExists(ctx, migration.TableName)
		if err != nil {
			return fmt.Errorf("failed to check if table %s exists: %w", migration.TableName, err)
		}

		if exists {
			log.Info().
				Str("migration", migration.Name).
				Str("table", migration.TableName).
				Msg("Table already exists, recording migration as completed")

			if err := m.recordMigration(ctx, migration.Name, migration.Description); err != nil {
				return fmt.Errorf("failed to record existing migration: %w", err)
			}
			continue
		}

		log.Info().
			Str("migration", migration.Name).
			Str("table", migration.TableName).
			Msg("Running migration")

		if err := m.runMigration(ctx, migration); err != nil {
			return err
		}
		migrationsRun++
	}

	log.Info().
		Int("migrations_run", migrationsRun).
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	return nil
}

// createMigrationsTable creates the tracking table if it doesn't exist
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			name VARCHAR(255) PRIMARY KEY,
			description TEXT,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// getExecutedMigrations returns the names of migrations already run
func (m *Migrator) getExecutedMigrations(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM migrations`
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	executed := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		executed[name] = true
	}

	return executed, rows.Err()
}

// runMigration runs a migration and records it in one transaction
func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := migration.RunSQL(ctx, tx); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}

		query := `INSERT INTO migrations (name, description) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, migration.Name, migration.Description); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}

		return nil
	})
}

// recordMigration records a migration as completed without running its SQL
func (m *Migrator) recordMigration(ctx context.Context, name, description string) error {
	query := `INSERT INTO migrations (name, description) VALUES ($1, $2)`
	if _, err := m.db.ExecContext(ctx, query, name, description); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// tableExists checks if a table exists in the current schema
func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
        SELECT EXISTS(SELECT 1
        FROM information_schema.tables
        WHERE table_schema = current_schema()
        AND table_name = $1)
    `
	var exists bool
	err := m.db.QueryRowContext(ctx, query, tableName).Scan(&exists)
	return exists, err
}

// GetMigrations returns all migrations in execution order
func GetMigrations() []Migration {
	return []Migration{
		createOwnersTable(),
		createAPITokensTable(),
	}
}
