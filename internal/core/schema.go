// AngelaMos | 2026
// schema.go

package core

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var Tables = []string{"users", "models", "dist", "po"}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		pass TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		brand TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		specs TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS dist (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL DEFAULT '',
		address  TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		contact  TEXT NOT NULL DEFAULT '',
		email    TEXT NOT NULL DEFAULT '',
		added_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS po (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		"date"    TEXT NOT NULL DEFAULT '',
		"time"    TEXT NOT NULL DEFAULT '',
		dist      TEXT NOT NULL DEFAULT '',
		location  TEXT NOT NULL DEFAULT '',
		model     TEXT NOT NULL DEFAULT '',
		color     TEXT NOT NULL DEFAULT '',
		spec      TEXT NOT NULL DEFAULT '',
		quantity  INTEGER NOT NULL DEFAULT 1,
		status    TEXT NOT NULL DEFAULT 'New',
		remark    TEXT NOT NULL DEFAULT '',
		added_by  TEXT NOT NULL DEFAULT '',
		update_by TEXT NOT NULL DEFAULT ''
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		pass TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		id    BIGSERIAL PRIMARY KEY,
		brand TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		specs TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS dist (
		id       BIGSERIAL PRIMARY KEY,
		name     TEXT NOT NULL DEFAULT '',
		address  TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		contact  TEXT NOT NULL DEFAULT '',
		email    TEXT NOT NULL DEFAULT '',
		added_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS po (
		id        BIGSERIAL PRIMARY KEY,
		"date"    TEXT NOT NULL DEFAULT '',
		"time"    TEXT NOT NULL DEFAULT '',
		dist      TEXT NOT NULL DEFAULT '',
		location  TEXT NOT NULL DEFAULT '',
		model     TEXT NOT NULL DEFAULT '',
		color     TEXT NOT NULL DEFAULT '',
		spec      TEXT NOT NULL DEFAULT '',
		quantity  INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		status    TEXT NOT NULL DEFAULT 'New',
		remark    TEXT NOT NULL DEFAULT '',
		added_by  TEXT NOT NULL DEFAULT '',
		update_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_po_status ON po (status)`,
}

// Migrate creates the four application tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := postgresSchema
	if db.DriverName() == DriverSQLite {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
