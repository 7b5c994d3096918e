package store

import (
	"database/sql"
	"fmt"
)

// schemaVersion is the current database schema version.
const schemaVersion = 3

// migrations maps each version to the statements that migrate it to the
// next version. Migrations are additive only: new optional columns
// default to NULL and never require rewriting existing rows.
var migrations = map[int][]string{
	0: { // initial schema
		`CREATE TABLE meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			project TEXT,
			area TEXT,
			resource TEXT,
			created_at TEXT NOT NULL,
			due_date TEXT,
			priority INTEGER NOT NULL DEFAULT 2,
			is_recurring INTEGER NOT NULL DEFAULT 0,
			recurrence_pattern TEXT,
			completed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE subtasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL REFERENCES tasks(id),
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE meetings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			summary TEXT,
			attendees TEXT,
			action_items TEXT,
			date TEXT,
			duration INTEGER,
			location TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			amount REAL NOT NULL,
			category TEXT,
			receipt_path TEXT,
			date TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE voice_notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			audio_path TEXT,
			transcript TEXT,
			created_at TEXT NOT NULL
		)`,
	},
	1: { // media metadata for the Media category
		`ALTER TABLE tasks ADD COLUMN media_type TEXT`,
		`ALTER TABLE tasks ADD COLUMN year TEXT`,
		`ALTER TABLE tasks ADD COLUMN director TEXT`,
		`ALTER TABLE tasks ADD COLUMN rating INTEGER`,
		`ALTER TABLE tasks ADD COLUMN cover_url TEXT`,
	},
	2: { // index for the common incomplete-tasks listing
		`CREATE INDEX idx_tasks_completed ON tasks(completed)`,
		`CREATE INDEX idx_subtasks_task_id ON subtasks(task_id)`,
	},
}

// migrate applies pending migrations in order inside one transaction.
func (s *Store) migrate() error {
	return s.withTx(func(tx *sql.Tx) error {
		version, err := currentVersion(tx)
		if err != nil {
			return err
		}
		if version > schemaVersion {
			return fmt.Errorf("database schema version %d is newer than supported version %d (upgrade tasker)",
				version, schemaVersion)
		}

		for v := version; v < schemaVersion; v++ {
			stmts, ok := migrations[v]
			if !ok {
				return fmt.Errorf("no migration path from schema version %d", v)
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migrating schema from v%d: %w", v, err)
				}
			}
		}

		if version != schemaVersion {
			if err := setVersion(tx, schemaVersion); err != nil {
				return err
			}
		}
		return nil
	})
}

// currentVersion reads the schema version, returning 0 for a fresh database.
func currentVersion(tx *sql.Tx) (int, error) {
	var exists int
	err := tx.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'meta'`,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("checking schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	err = tx.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func setVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, version)
	if err != nil {
		return fmt.Errorf("writing schema version: %w", err)
	}
	return nil
}
