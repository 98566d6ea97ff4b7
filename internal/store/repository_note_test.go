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

func newTestNoteRepo(t *testing.T) (*noteRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &noteRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func noteColumns() []string {
	return []string{"id", "title", "content", "tags", "created_at", "updated_at", "is_archived", "is_pinned"}
}

func TestSaveNote_Success(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	note := models.Note{
		ID:        "note-1",
		Title:     "groceries",
		Content:   "bm9uY2UtYW5kLWNpcGhlcnRleHQ=",
		Tags:      []string{"home"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO notes").
		WithArgs(note.ID, note.Title, note.Content, `["home"]`, note.CreatedAt, note.UpdatedAt, false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveNote(context.Background(), note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSaveNote_NilTagsStoredAsEmptyArray(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	note := models.Note{ID: "note-1", Title: "t", Content: "c", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO notes").
		WithArgs(note.ID, note.Title, note.Content, `[]`, note.CreatedAt, note.UpdatedAt, false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveNote(context.Background(), note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM notes").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetNote(context.Background(), "missing")
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestGetNote_Success(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(noteColumns()).
		AddRow("note-1", "groceries", "Y2lwaGVy", `["home","todo"]`, now, now, false, true)

	mock.ExpectQuery("SELECT (.+) FROM notes").
		WithArgs("note-1").
		WillReturnRows(rows)

	note, err := repo.GetNote(context.Background(), "note-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(note.Tags) != 2 || note.Tags[0] != "home" {
		t.Errorf("tags not decoded: %v", note.Tags)
	}
	if !note.Pinned {
		t.Error("expected pinned note")
	}
}

func TestListNotes_FilterBuildsWhereClause(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	archived := false
	rows := sqlmock.NewRows(noteColumns()).
		AddRow("note-1", "a", "c", `["work"]`, now, now, false, false)

	mock.ExpectQuery("SELECT (.+) FROM notes WHERE tags LIKE (.+) AND is_archived = (.+) ORDER BY updated_at DESC").
		WithArgs(`%"work"%`, false).
		WillReturnRows(rows)

	notes, err := repo.ListNotes(context.Background(), NoteFilter{Tag: "work", Archived: &archived})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	note := models.Note{ID: "missing", Title: "t", Content: "c", UpdatedAt: now}

	mock.ExpectExec("UPDATE notes SET").
		WithArgs(note.Title, note.Content, `[]`, note.UpdatedAt, false, false, note.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateNote(context.Background(), note)
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestDeleteNote_Success(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM notes").
		WithArgs("note-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteNote(context.Background(), "note-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertNote_InsertOrReplace(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	note := models.Note{ID: "note-1", Title: "t", Content: "c", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO notes (.+) ON CONFLICT").
		WithArgs(note.ID, note.Title, note.Content, `[]`, note.CreatedAt, note.UpdatedAt, false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertNote(context.Background(), note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
