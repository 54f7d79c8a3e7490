package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one ordered schema change. Versions are applied exactly once
// and recorded in schema_migrations; statements within a version run in a
// single transaction.
type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE groups (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				join_code_hash TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE group_seats (
				group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
				position INTEGER NOT NULL CHECK (position >= 0),
				name TEXT NOT NULL,
				PRIMARY KEY (group_id, position),
				UNIQUE (group_id, name)
			)`,
			`CREATE TABLE members (
				group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
				id TEXT NOT NULL,
				display_name TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (group_id, id)
			)`,
			`CREATE TABLE arrangements (
				group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
				date TEXT NOT NULL,
				reasoning TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				PRIMARY KEY (group_id, date)
			)`,
			`CREATE TABLE arrangement_seats (
				group_id TEXT NOT NULL,
				date TEXT NOT NULL,
				seat TEXT NOT NULL,
				participant_id TEXT NOT NULL,
				PRIMARY KEY (group_id, date, seat),
				UNIQUE (group_id, date, participant_id),
				FOREIGN KEY (group_id, date) REFERENCES arrangements(group_id, date) ON DELETE CASCADE
			)`,
			`CREATE TABLE non_working_days (
				group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
				date TEXT NOT NULL,
				PRIMARY KEY (group_id, date)
			)`,
			`CREATE TABLE special_events (
				group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
				date TEXT NOT NULL,
				description TEXT NOT NULL,
				PRIMARY KEY (group_id, date)
			)`,
		},
	},
}

// Migrate applies all pending schema migrations.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: failed to create schema_migrations: %w", err)
	}

	applied, err := cp.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if _, ok := applied[m.version]; ok {
			continue
		}
		if err := cp.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("sqlite: migration %d failed: %w", m.version, err)
		}
	}

	return nil
}

func (cp *ConnectionPool) appliedVersions(ctx context.Context) (map[int]struct{}, error) {
	rows, err := cp.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]struct{})
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan migration version: %w", err)
		}
		applied[version] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate schema_migrations: %w", err)
	}

	return applied, nil
}

func (cp *ConnectionPool) applyMigration(ctx context.Context, m migration) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, statement := range m.statements {
			if _, err := tx.Exec(statement); err != nil {
				return err
			}
		}
		_, err := tx.Exec(
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			m.version,
			time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
}
