package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

func newTestRecordRepo(t *testing.T) (*recordRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &recordRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func testChange() models.ChangeLogEntry {
	return models.ChangeLogEntry{
		ID:         "change-1",
		EntityKind: models.EntityNote,
		EntityID:   "note-1",
		ChangeKind: models.ChangeCreate,
		Payload:    []byte(`{"id":"note-1"}`),
		Timestamp:  time.Now(),
		Version:    1,
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM records").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetRecord(context.Background(), "missing")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestApplyChange_NewChangeTicksClockAndUpserts(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	change := testChange()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM applied_changes").
		WithArgs("client-a", change.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("UPDATE sync_clock SET version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(8))
	mock.ExpectExec("INSERT INTO records").
		WithArgs(change.EntityID, change.EntityKind, change.Payload, uint64(8), "client-a", false, change.Timestamp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO applied_changes").
		WithArgs("client-a", change.ID, uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := repo.ApplyChange(context.Background(), "client-a", change)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied.Version != 8 {
		t.Errorf("expected assigned version 8, got %d", applied.Version)
	}
	if applied.Duplicate {
		t.Error("new change must not be reported as duplicate")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplyChange_RetriedPushIsSkipped(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	change := testChange()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM applied_changes").
		WithArgs("client-a", change.ID).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(8))
	mock.ExpectRollback()

	applied, err := repo.ApplyChange(context.Background(), "client-a", change)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied.Duplicate {
		t.Error("retried change must be reported as duplicate")
	}
	if applied.Version != 8 {
		t.Errorf("retried change must return original version 8, got %d", applied.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplyChange_DeleteClearsPayload(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	change := testChange()
	change.ChangeKind = models.ChangeDelete
	change.Payload = []byte(`{"stale":"snapshot"}`)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM applied_changes").
		WithArgs("client-a", change.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("UPDATE sync_clock SET version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(9))
	mock.ExpectExec("INSERT INTO records").
		WithArgs(change.EntityID, change.EntityKind, []byte(nil), uint64(9), "client-a", true, change.Timestamp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO applied_changes").
		WithArgs("client-a", change.ID, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := repo.ApplyChange(context.Background(), "client-a", change); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyChange_UpsertFailureRollsBack(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	change := testChange()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM applied_changes").
		WithArgs("client-a", change.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("UPDATE sync_clock SET version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(8))
	mock.ExpectExec("INSERT INTO records").
		WithArgs(change.EntityID, change.EntityKind, change.Payload, uint64(8), "client-a", false, change.Timestamp).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.ApplyChange(context.Background(), "client-a", change)
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}

func TestChangesSince_ExcludesOrigin(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"entity_id", "entity_type", "payload", "version", "origin", "deleted", "updated_at"}).
		AddRow("note-2", "note", []byte(`{}`), 6, "client-b", false, now).
		AddRow("tag-1", "tag", nil, 7, "client-b", true, now)

	mock.ExpectQuery("SELECT (.+) FROM records WHERE version > (.+) AND origin <> (.+) ORDER BY version").
		WithArgs(uint64(5), "client-a").
		WillReturnRows(rows)

	records, err := repo.ChangesSince(context.Background(), 5, "client-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[1].Deleted {
		t.Error("expected second record to be a tombstone")
	}
}

func TestSaveCursor_Upsert(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec("INSERT INTO client_cursors").
		WithArgs("client-a", uint64(8), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveCursor(context.Background(), "client-a", 8, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
