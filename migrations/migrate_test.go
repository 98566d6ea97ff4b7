// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package migrations

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrateServer_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	// sqlmock has no expectations set, so goose's bookkeeping queries fail.
	err = MigrateServer(db)
	if err == nil {
		t.Fatal("expected error from MigrateServer, got nil")
	}
	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrateClient_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	err = MigrateClient(db)
	if err == nil {
		t.Fatal("expected error from MigrateClient, got nil")
	}
}
