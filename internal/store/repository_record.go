// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository].
//
// Each pushed change is applied in its own transaction: tick the logical
// clock, upsert the record, mark the (client, change) pair applied. A
// retried push hits the applied_changes primary key before anything else and
// returns the originally assigned version without touching the record.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *recordRepository) GetRecord(ctx context.Context, entityID string) (Record, error) {
	log := logger.FromContext(ctx)

	var record Record
	err := r.DB.QueryRowContext(ctx, getRecord, entityID).Scan(
		&record.EntityID,
		&record.EntityKind,
		&record.Payload,
		&record.Version,
		&record.Origin,
		&record.Deleted,
		&record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetRecord").
			Str("entity_id", entityID).
			Msg("failed to get record")
		return Record{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

func (r *recordRepository) ApplyChange(ctx context.Context, clientID string, change models.ChangeLogEntry) (AppliedChange, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyChange").
			Str("client_id", clientID).
			Str("change_id", change.ID).
			Msg("failed to begin transaction")
		return AppliedChange{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	// Retried push: the pair was applied by an earlier, possibly
	// interrupted, request.
	var priorVersion uint64
	err = tx.QueryRowContext(ctx, getAppliedChange, clientID, change.ID).Scan(&priorVersion)
	if err == nil {
		log.Debug().
			Str("func", "recordRepository.ApplyChange").
			Str("client_id", clientID).
			Str("change_id", change.ID).
			Uint64("version", priorVersion).
			Msg("change already applied, skipping")
		return AppliedChange{Version: priorVersion, Duplicate: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).
			Str("func", "recordRepository.ApplyChange").
			Str("change_id", change.ID).
			Msg("failed to check applied changes")
		return AppliedChange{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var version uint64
	if err = tx.QueryRowContext(ctx, tickSyncClock).Scan(&version); err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyChange").
			Str("change_id", change.ID).
			Msg("failed to advance sync clock")
		return AppliedChange{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	deleted := change.ChangeKind == models.ChangeDelete
	payload := change.Payload
	if deleted {
		payload = nil
	}

	_, err = tx.ExecContext(ctx, upsertRecord,
		change.EntityID,
		change.EntityKind,
		payload,
		version,
		clientID,
		deleted,
		change.Timestamp,
	)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyChange").
			Str("entity_id", change.EntityID).
			Str("change_id", change.ID).
			Msg("failed to upsert record")
		return AppliedChange{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, markChangeApplied, clientID, change.ID, version); err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyChange").
			Str("client_id", clientID).
			Str("change_id", change.ID).
			Msg("failed to mark change applied")
		return AppliedChange{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "recordRepository.ApplyChange").
			Str("change_id", change.ID).
			Msg("failed to commit transaction")
		return AppliedChange{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, commitErr)
	}

	log.Debug().
		Str("func", "recordRepository.ApplyChange").
		Str("entity_id", change.EntityID).
		Str("change_type", string(change.ChangeKind)).
		Uint64("version", version).
		Msg("applied change")

	return AppliedChange{Version: version}, nil
}

// ChangesSince returns records written after sinceVersion in ascending
// version order, excluding records last written by excludeOrigin.
func (r *recordRepository) ChangesSince(ctx context.Context, sinceVersion uint64, excludeOrigin string) ([]Record, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select("entity_id", "entity_type", "payload", "version", "origin", "deleted", "updated_at").
		From("records").
		Where(sq.Gt{"version": sinceVersion}).
		OrderBy("version").
		PlaceholderFormat(sq.Dollar)

	if excludeOrigin != "" {
		builder = builder.Where(sq.NotEq{"origin": excludeOrigin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ChangesSince").
			Msg("failed to build changes query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ChangesSince").
			Uint64("since_version", sinceVersion).
			Msg("failed to query changed records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]Record, 0, 50)

	for rows.Next() {
		var record Record

		scanErr := rows.Scan(
			&record.EntityID,
			&record.EntityKind,
			&record.Payload,
			&record.Version,
			&record.Origin,
			&record.Deleted,
			&record.UpdatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.ChangesSince").
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "recordRepository.ChangesSince").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (r *recordRepository) CurrentVersion(ctx context.Context) (uint64, error) {
	log := logger.FromContext(ctx)

	var version uint64
	if err := r.DB.QueryRowContext(ctx, getSyncClock).Scan(&version); err != nil {
		log.Err(err).
			Str("func", "recordRepository.CurrentVersion").
			Msg("failed to read sync clock")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return version, nil
}

func (r *recordRepository) SaveCursor(ctx context.Context, clientID string, syncVersion uint64, lastSync time.Time) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, saveClientCursor, clientID, syncVersion, lastSync)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.SaveCursor").
			Str("client_id", clientID).
			Uint64("sync_version", syncVersion).
			Msg("failed to save client cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
