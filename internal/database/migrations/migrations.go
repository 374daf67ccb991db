package migrations

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Migration is one schema change
type Migration struct {
	Name    string
	UpSQL   string
	DownSQL string
}

// DB is what the Migrator needs from a pgx pool or connection
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// All lists every migration in apply order
var All = []*Migration{
	InitialSchema,
	PricingSchema,
}

// Migrator applies and rolls back migrations
type Migrator struct {
	db DB
}

// New creates a new Migrator
func New(db DB) *Migrator {
	return &Migrator{db: db}
}

// Initialize creates the schema_migrations table if it doesn't exist
func (m *Migrator) Initialize(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

// Applied returns the names of applied migrations
func (m *Migrator) Applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT name FROM schema_migrations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) execute(ctx context.Context, migration *Migration, sql, recordQuery string) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		rollback(ctx, tx)
		return fmt.Errorf("failed to execute migration %s: %w", migration.Name, err)
	}
	if _, err := tx.Exec(ctx, recordQuery, migration.Name); err != nil {
		rollback(ctx, tx)
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", migration.Name, err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		log.Printf("Warning: failed to rollback transaction: %v", err)
	}
}

// Apply runs a single migration
func (m *Migrator) Apply(ctx context.Context, migration *Migration) error {
	return m.execute(ctx, migration, migration.UpSQL, `INSERT INTO schema_migrations (name) VALUES ($1)`)
}

// Revert undoes a single migration
func (m *Migrator) Revert(ctx context.Context, migration *Migration) error {
	return m.execute(ctx, migration, migration.DownSQL, `DELETE FROM schema_migrations WHERE name = $1`)
}

// Migrate applies all pending migrations and returns the names it applied
func (m *Migrator) Migrate(ctx context.Context, migrations []*Migration) ([]string, error) {
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, migration := range migrations {
		if applied[migration.Name] {
			continue
		}
		if err := m.Apply(ctx, migration); err != nil {
			return done, err
		}
		log.Printf("Applied migration: %s", migration.Name)
		done = append(done, migration.Name)
	}
	return done, nil
}

// Rollback reverts the last applied migration
func (m *Migrator) Rollback(ctx context.Context, migrations []*Migration) (string, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return "", err
	}

	var last *Migration
	for i := len(migrations) - 1; i >= 0; i-- {
		if applied[migrations[i].Name] {
			last = migrations[i]
			break
		}
	}
	if last == nil {
		return "", fmt.Errorf("no migrations to rollback")
	}

	if err := m.Revert(ctx, last); err != nil {
		return "", err
	}
	log.Printf("Rolled back migration: %s", last.Name)
	return last.Name, nil
}
