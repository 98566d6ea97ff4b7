// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

// noteRepository is the SQLite-backed implementation of [NoteRepository].
// Tags are persisted as a JSON array in a single TEXT column; the repository
// (de)serialises them transparently.
type noteRepository struct {
	*DB
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by the provided
// database connection and logger.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	return &noteRepository{
		DB:     db,
		logger: logger,
	}
}

func (n *noteRepository) SaveNote(ctx context.Context, note models.Note) error {
	log := logger.FromContext(ctx)

	tags, err := marshalTags(note.Tags)
	if err != nil {
		return err
	}

	_, err = n.DB.ExecContext(ctx, saveNote,
		note.ID,
		note.Title,
		note.Content,
		tags,
		note.CreatedAt,
		note.UpdatedAt,
		note.Archived,
		note.Pinned,
	)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.SaveNote").
			Str("id", note.ID).
			Msg("failed to insert note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (n *noteRepository) GetNote(ctx context.Context, id string) (models.Note, error) {
	log := logger.FromContext(ctx)

	note, err := scanNote(n.DB.QueryRowContext(ctx, getNote, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNoteNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.GetNote").
			Str("id", id).
			Msg("failed to get note")
		return models.Note{}, err
	}

	return note, nil
}

// ListNotes returns every note matching the filter, most recently updated
// first. The WHERE clause is assembled dynamically from the populated filter
// dimensions.
func (n *noteRepository) ListNotes(ctx context.Context, filter NoteFilter) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select("id", "title", "content", "tags", "created_at", "updated_at", "is_archived", "is_pinned").
		From("notes").
		OrderBy("updated_at DESC")

	if filter.Tag != "" {
		// tags is a JSON array of strings; match the quoted element.
		builder = builder.Where(sq.Like{"tags": `%"` + filter.Tag + `"%`})
	}
	if filter.Archived != nil {
		builder = builder.Where(sq.Eq{"is_archived": *filter.Archived})
	}
	if filter.Pinned != nil {
		builder = builder.Where(sq.Eq{"is_pinned": *filter.Pinned})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.ListNotes").
			Msg("failed to build list query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := n.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.ListNotes").
			Msg("failed to execute list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, 50)

	for rows.Next() {
		note, scanErr := scanNote(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "noteRepository.ListNotes").
				Msg("failed to scan note row")
			return nil, scanErr
		}
		notes = append(notes, note)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "noteRepository.ListNotes").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

func (n *noteRepository) UpdateNote(ctx context.Context, note models.Note) error {
	log := logger.FromContext(ctx)

	tags, err := marshalTags(note.Tags)
	if err != nil {
		return err
	}

	result, err := n.DB.ExecContext(ctx, updateNote,
		note.Title,
		note.Content,
		tags,
		note.UpdatedAt,
		note.Archived,
		note.Pinned,
		note.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.UpdateNote").
			Str("id", note.ID).
			Msg("failed to update note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result, ErrNoteNotFound)
}

func (n *noteRepository) DeleteNote(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := n.DB.ExecContext(ctx, deleteNote, id)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.DeleteNote").
			Str("id", id).
			Msg("failed to delete note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result, ErrNoteNotFound)
}

// UpsertNote inserts the note or replaces an existing one with the same id.
// Used when applying remote changes, where create/update distinction cannot
// be trusted across installations.
func (n *noteRepository) UpsertNote(ctx context.Context, note models.Note) error {
	log := logger.FromContext(ctx)

	tags, err := marshalTags(note.Tags)
	if err != nil {
		return err
	}

	_, err = n.DB.ExecContext(ctx, upsertNote,
		note.ID,
		note.Title,
		note.Content,
		tags,
		note.CreatedAt,
		note.UpdatedAt,
		note.Archived,
		note.Pinned,
	)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.UpsertNote").
			Str("id", note.ID).
			Msg("failed to upsert note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var note models.Note
	var tags string

	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&tags,
		&note.CreatedAt,
		&note.UpdatedAt,
		&note.Archived,
		&note.Pinned,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, err
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := json.Unmarshal([]byte(tags), &note.Tags); err != nil {
		return models.Note{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return note, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return string(encoded), nil
}

// checkAffected converts a zero-rows-affected result into notFound. Drivers
// that cannot report affected rows pass through as success.
func checkAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
