// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

// annotationRepository is the SQLite-backed implementation of
// [AnnotationRepository]. AudioData arrives already encrypted (a base64 blob
// encoded as bytes) and is stored verbatim.
type annotationRepository struct {
	*DB
	logger *logger.Logger
}

// NewAnnotationRepository constructs an [AnnotationRepository] backed by the
// provided database connection and logger.
func NewAnnotationRepository(db *DB, logger *logger.Logger) AnnotationRepository {
	return &annotationRepository{
		DB:     db,
		logger: logger,
	}
}

func (a *annotationRepository) SaveAnnotation(ctx context.Context, annotation models.VoiceAnnotation) error {
	log := logger.FromContext(ctx)

	_, err := a.DB.ExecContext(ctx, saveAnnotation,
		annotation.ID,
		annotation.NoteID,
		annotation.AudioData,
		annotation.Transcription,
		annotation.Timestamp,
		annotation.Duration,
		annotation.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "annotationRepository.SaveAnnotation").
			Str("id", annotation.ID).
			Str("note_id", annotation.NoteID).
			Msg("failed to insert voice annotation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (a *annotationRepository) GetAnnotation(ctx context.Context, id string) (models.VoiceAnnotation, error) {
	log := logger.FromContext(ctx)

	annotation, err := scanAnnotation(a.DB.QueryRowContext(ctx, getAnnotation, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoiceAnnotation{}, ErrAnnotationNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "annotationRepository.GetAnnotation").
			Str("id", id).
			Msg("failed to get voice annotation")
		return models.VoiceAnnotation{}, err
	}

	return annotation, nil
}

// ListAnnotations returns the annotations attached to one note, ordered by
// recording timestamp.
func (a *annotationRepository) ListAnnotations(ctx context.Context, noteID string) ([]models.VoiceAnnotation, error) {
	log := logger.FromContext(ctx)

	rows, err := a.DB.QueryContext(ctx, getNoteAnnotations, noteID)
	if err != nil {
		log.Err(err).
			Str("func", "annotationRepository.ListAnnotations").
			Str("note_id", noteID).
			Msg("failed to execute list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	annotations := make([]models.VoiceAnnotation, 0, 10)

	for rows.Next() {
		annotation, scanErr := scanAnnotation(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "annotationRepository.ListAnnotations").
				Str("note_id", noteID).
				Msg("failed to scan voice annotation row")
			return nil, scanErr
		}
		annotations = append(annotations, annotation)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "annotationRepository.ListAnnotations").
			Str("note_id", noteID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return annotations, nil
}

func (a *annotationRepository) UpdateAnnotation(ctx context.Context, annotation models.VoiceAnnotation) error {
	log := logger.FromContext(ctx)

	result, err := a.DB.ExecContext(ctx, updateAnnotation,
		annotation.NoteID,
		annotation.AudioData,
		annotation.Transcription,
		annotation.Timestamp,
		annotation.Duration,
		annotation.UpdatedAt,
		annotation.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "annotationRepository.UpdateAnnotation").
			Str("id", annotation.ID).
			Msg("failed to update voice annotation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result, ErrAnnotationNotFound)
}

func (a *annotationRepository) DeleteAnnotation(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := a.DB.ExecContext(ctx, deleteAnnotation, id)
	if err != nil {
		log.Err(err).
			Str("func", "annotationRepository.DeleteAnnotation").
			Str("id", id).
			Msg("failed to delete voice annotation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result, ErrAnnotationNotFound)
}

func (a *annotationRepository) UpsertAnnotation(ctx context.Context, annotation models.VoiceAnnotation) error {
	log := logger.FromContext(ctx)

	_, err := a.DB.ExecContext(ctx, upsertAnnotation,
		annotation.ID,
		annotation.NoteID,
		annotation.AudioData,
		annotation.Transcription,
		annotation.Timestamp,
		annotation.Duration,
		annotation.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "annotationRepository.UpsertAnnotation").
			Str("id", annotation.ID).
			Msg("failed to upsert voice annotation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func scanAnnotation(row rowScanner) (models.VoiceAnnotation, error) {
	var annotation models.VoiceAnnotation

	err := row.Scan(
		&annotation.ID,
		&annotation.NoteID,
		&annotation.AudioData,
		&annotation.Transcription,
		&annotation.Timestamp,
		&annotation.Duration,
		&annotation.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoiceAnnotation{}, err
	}
	if err != nil {
		return models.VoiceAnnotation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return annotation, nil
}
