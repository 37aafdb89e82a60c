package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/OldStager01/sentinel-console/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMP    NOT NULL
)`

type Migrator struct {
	db *DB
}

func NewMigrator(db *DB) *Migrator {
	return &Migrator{db: db}
}

// Run applies every embedded migration that has not been recorded in
// schema_migrations, in file name order. Each file runs in its own transaction.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Debug("Database schema is up to date")
		return nil
	}

	for _, file := range pending {
		if err := m.executeMigration(ctx, file); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	logger.Infof("Applied %d migration(s)", len(pending))
	return nil
}

// Pending lists migration files not yet applied.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	files, err := m.getMigrationFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to get migration files: %w", err)
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	var pending []string
	for _, f := range files {
		if !done[f] {
			pending = append(pending, f)
		}
	}
	return pending, nil
}

// Applied lists recorded migration versions. A missing bookkeeping table
// means nothing has been applied yet.
func (m *Migrator) Applied(ctx context.Context) ([]string, error) {
	exists, err := m.db.TableExists(ctx, "schema_migrations")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (m *Migrator) getMigrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}

func (m *Migrator) executeMigration(ctx context.Context, filename string) error {
	content, err := fs.ReadFile(migrationsFS, "migrations/"+filename)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	logger.WithField("migration", filename).Info("Executing migration")

	return m.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitStatements(string(content)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute SQL: %w", err)
			}
		}
		_, err := tx.ExecContext(ctx,
			m.db.Rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`),
			filename, time.Now().UTC(),
		)
		return err
	})
}

// splitStatements breaks a migration file on ';'. Migration files must not
// carry semicolons inside string literals.
func splitStatements(content string) []string {
	var out []string
	for _, part := range strings.Split(content, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
