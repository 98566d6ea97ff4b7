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

// tagRepository is the SQLite-backed implementation of [TagRepository].
type tagRepository struct {
	*DB
	logger *logger.Logger
}

// NewTagRepository constructs a [TagRepository] backed by the provided
// database connection and logger.
func NewTagRepository(db *DB, logger *logger.Logger) TagRepository {
	return &tagRepository{
		DB:     db,
		logger: logger,
	}
}

func (t *tagRepository) SaveTag(ctx context.Context, tag models.Tag) error {
	log := logger.FromContext(ctx)

	_, err := t.DB.ExecContext(ctx, saveTag,
		tag.ID,
		tag.Name,
		tag.Color,
		tag.Description,
		tag.UsageCount,
		tag.CreatedAt,
		tag.LastUsed,
		tag.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.SaveTag").
			Str("id", tag.ID).
			Str("name", tag.Name).
			Msg("failed to insert tag")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (t *tagRepository) GetTag(ctx context.Context, id string) (models.Tag, error) {
	log := logger.FromContext(ctx)

	tag, err := scanTag(t.DB.QueryRowContext(ctx, getTag, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, ErrTagNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.GetTag").
			Str("id", id).
			Msg("failed to get tag")
		return models.Tag{}, err
	}

	return tag, nil
}

func (t *tagRepository) GetTagByName(ctx context.Context, name string) (models.Tag, error) {
	log := logger.FromContext(ctx)

	tag, err := scanTag(t.DB.QueryRowContext(ctx, getTagByName, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, ErrTagNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.GetTagByName").
			Str("name", name).
			Msg("failed to get tag by name")
		return models.Tag{}, err
	}

	return tag, nil
}

func (t *tagRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	log := logger.FromContext(ctx)

	rows, err := t.DB.QueryContext(ctx, getAllTags)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.ListTags").
			Msg("failed to execute list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0, 20)

	for rows.Next() {
		tag, scanErr := scanTag(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "tagRepository.ListTags").
				Msg("failed to scan tag row")
			return nil, scanErr
		}
		tags = append(tags, tag)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "tagRepository.ListTags").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tags, nil
}

func (t *tagRepository) UpdateTag(ctx context.Context, tag models.Tag) error {
	log := logger.FromContext(ctx)

	result, err := t.DB.ExecContext(ctx, updateTag,
		tag.Name,
		tag.Color,
		tag.Description,
		tag.UsageCount,
		tag.LastUsed,
		tag.UpdatedAt,
		tag.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.UpdateTag").
			Str("id", tag.ID).
			Msg("failed to update tag")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result, ErrTagNotFound)
}

func (t *tagRepository) DeleteTag(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := t.DB.ExecContext(ctx, deleteTag, id)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.DeleteTag").
			Str("id", id).
			Msg("failed to delete tag")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result, ErrTagNotFound)
}

func (t *tagRepository) UpsertTag(ctx context.Context, tag models.Tag) error {
	log := logger.FromContext(ctx)

	_, err := t.DB.ExecContext(ctx, upsertTag,
		tag.ID,
		tag.Name,
		tag.Color,
		tag.Description,
		tag.UsageCount,
		tag.CreatedAt,
		tag.LastUsed,
		tag.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.UpsertTag").
			Str("id", tag.ID).
			Msg("failed to upsert tag")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func scanTag(row rowScanner) (models.Tag, error) {
	var tag models.Tag
	var description sql.NullString
	var lastUsed sql.NullTime

	err := row.Scan(
		&tag.ID,
		&tag.Name,
		&tag.Color,
		&description,
		&tag.UsageCount,
		&tag.CreatedAt,
		&lastUsed,
		&tag.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, err
	}
	if err != nil {
		return models.Tag{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	tag.Description = description.String
	if lastUsed.Valid {
		tag.LastUsed = &lastUsed.Time
	}

	return tag, nil
}
