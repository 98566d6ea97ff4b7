// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package store

import (
	"context"
	"fmt"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

// changeLogRepository is the SQLite-backed implementation of
// [ChangeLogRepository]. Entries are never deleted: acknowledging flips the
// acknowledged flag so the table doubles as a local mutation history.
type changeLogRepository struct {
	*DB
	logger *logger.Logger
}

// NewChangeLogRepository constructs a [ChangeLogRepository] backed by the
// provided database connection and logger.
func NewChangeLogRepository(db *DB, logger *logger.Logger) ChangeLogRepository {
	return &changeLogRepository{
		DB:     db,
		logger: logger,
	}
}

func (c *changeLogRepository) MaxVersion(ctx context.Context) (uint64, error) {
	log := logger.FromContext(ctx)

	var version uint64
	err := c.DB.QueryRowContext(ctx, getMaxChangeLogVersion).Scan(&version)
	if err != nil {
		log.Err(err).
			Str("func", "changeLogRepository.MaxVersion").
			Msg("failed to read max change log version")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return version, nil
}

func (c *changeLogRepository) Append(ctx context.Context, entry models.ChangeLogEntry) error {
	log := logger.FromContext(ctx)

	result, err := c.DB.ExecContext(ctx, appendChangeLogEntry,
		entry.Version,
		entry.ID,
		entry.EntityKind,
		entry.EntityID,
		entry.ChangeKind,
		entry.Payload,
		entry.Timestamp,
	)
	if err != nil {
		log.Err(err).
			Str("func", "changeLogRepository.Append").
			Str("id", entry.ID).
			Uint64("version", entry.Version).
			Msg("failed to append change log entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrEntryNotSaved
	}

	log.Debug().
		Str("func", "changeLogRepository.Append").
		Str("entity_type", string(entry.EntityKind)).
		Str("entity_id", entry.EntityID).
		Str("change_type", string(entry.ChangeKind)).
		Uint64("version", entry.Version).
		Msg("appended change log entry")

	return nil
}

func (c *changeLogRepository) Pending(ctx context.Context) ([]models.ChangeLogEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, getPendingChangeLogEntries)
	if err != nil {
		log.Err(err).
			Str("func", "changeLogRepository.Pending").
			Msg("failed to query pending change log entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.ChangeLogEntry, 0, 50)

	for rows.Next() {
		var entry models.ChangeLogEntry

		scanErr := rows.Scan(
			&entry.Version,
			&entry.ID,
			&entry.EntityKind,
			&entry.EntityID,
			&entry.ChangeKind,
			&entry.Payload,
			&entry.Timestamp,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "changeLogRepository.Pending").
				Msg("failed to scan change log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "changeLogRepository.Pending").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

func (c *changeLogRepository) Acknowledge(ctx context.Context, upToVersion uint64) error {
	log := logger.FromContext(ctx)

	result, err := c.DB.ExecContext(ctx, acknowledgeChangeLogEntries, upToVersion)
	if err != nil {
		log.Err(err).
			Str("func", "changeLogRepository.Acknowledge").
			Uint64("up_to_version", upToVersion).
			Msg("failed to acknowledge change log entries")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, affErr := result.RowsAffected(); affErr == nil {
		log.Debug().
			Str("func", "changeLogRepository.Acknowledge").
			Uint64("up_to_version", upToVersion).
			Int64("acknowledged", affected).
			Msg("acknowledged change log entries")
	}

	return nil
}
