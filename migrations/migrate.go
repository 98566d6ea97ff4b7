// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

// Package migrations applies the embedded goose migrations for both storage
// backends: the client's SQLite database and the server's PostgreSQL
// database. Each backend has its own migration directory because the
// schemas differ (the client carries the change log and sync state, the
// server carries per-client applied logs and the version counter).
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

// MigrateClient brings the client's SQLite schema up to date.
func MigrateClient(db *sql.DB) error {
	return migrate(db, "sqlite3", "client")
}

// MigrateServer brings the server's PostgreSQL schema up to date.
func MigrateServer(db *sql.DB) error {
	return migrate(db, "pgx", "server")
}

func migrate(db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
