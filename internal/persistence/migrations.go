package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DefaultMigrationsDir is resolved relative to the working directory.
const DefaultMigrationsDir = "migrations"

const (
	createLedgerSQL = `CREATE TABLE IF NOT EXISTS access_schema_migrations (
    filename   TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	appliedSQL = `SELECT filename FROM access_schema_migrations`
	recordSQL  = `INSERT INTO access_schema_migrations (filename) VALUES ($1)`
)

// Migrate applies the .sql files in dir that the access_schema_migrations ledger has
// not seen yet, in lexical order. Each file runs in its own transaction together
// with its ledger row.
func (s *AccessStore) Migrate(ctx context.Context, dir string) error {
	if s.Pool() == nil {
		s.logger.Warn("access store disabled; skipping migrations")
		return nil
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, createLedgerSQL); err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}
	rows, err := s.pool.Query(ctx, appliedSQL)
	if err != nil {
		return fmt.Errorf("read migration ledger: %w", err)
	}
	applied, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("read migration ledger: %w", err)
	}

	todo := pendingMigrations(files, applied)
	for _, name := range todo {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		started := time.Now()
		err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(content)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, recordSQL, name)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		s.logger.Info("migration applied", zap.String("file", name), zap.Duration("took", time.Since(started)))
	}

	s.logger.Info("access schema up to date",
		zap.Int("applied", len(todo)),
		zap.Int("skipped", len(files)-len(todo)),
	)
	return nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func pendingMigrations(files, applied []string) []string {
	seen := make(map[string]struct{}, len(applied))
	for _, name := range applied {
		seen[name] = struct{}{}
	}
	pending := make([]string, 0, len(files))
	for _, name := range files {
		if _, ok := seen[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending
}
