package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

func newTestSyncStateRepo(t *testing.T) (*syncStateRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &syncStateRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestGetSyncState_FirstAccessInitialises(t *testing.T) {
	repo, mock, db := newTestSyncStateRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM sync_state").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO sync_state").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	state, err := repo.GetSyncState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, parseErr := uuid.Parse(state.ClientID); parseErr != nil {
		t.Errorf("client id is not a uuid: %q", state.ClientID)
	}
	if state.SyncVersion != 0 {
		t.Errorf("fresh installation must start at sync version 0, got %d", state.SyncVersion)
	}
	if state.LastSync != nil {
		t.Errorf("fresh installation must have nil last sync, got %v", state.LastSync)
	}
}

func TestGetSyncState_ExistingRow(t *testing.T) {
	repo, mock, db := newTestSyncStateRepo(t)
	defer db.Close()

	last := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"client_id", "sync_version", "last_sync"}).
		AddRow("client-a", 42, last)

	mock.ExpectQuery("SELECT (.+) FROM sync_state").
		WillReturnRows(rows)

	state, err := repo.GetSyncState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ClientID != "client-a" || state.SyncVersion != 42 {
		t.Errorf("unexpected state: %+v", state)
	}
	if state.LastSync == nil {
		t.Fatal("expected non-nil last sync")
	}
}

func TestSaveSyncState_Success(t *testing.T) {
	repo, mock, db := newTestSyncStateRepo(t)
	defer db.Close()

	now := time.Now()
	state := models.SyncState{ClientID: "client-a", SyncVersion: 43, LastSync: &now}

	mock.ExpectExec("UPDATE sync_state SET").
		WithArgs(state.ClientID, state.SyncVersion, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveSyncState(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
