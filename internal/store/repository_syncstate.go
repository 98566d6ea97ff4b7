// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

// syncStateRepository persists the single-row synchronization cursor. The
// row is created lazily on first read with a freshly generated client ID.
type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs a [SyncStateRepository] backed by the
// provided database connection and logger.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateRepository {
	return &syncStateRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *syncStateRepository) GetSyncState(ctx context.Context) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	var state models.SyncState
	var lastSync sql.NullTime

	err := s.DB.QueryRowContext(ctx, getSyncState).Scan(&state.ClientID, &state.SyncVersion, &lastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return s.initState(ctx)
	}
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.GetSyncState").
			Msg("failed to read sync state")
		return models.SyncState{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if lastSync.Valid {
		state.LastSync = &lastSync.Time
	}

	return state, nil
}

func (s *syncStateRepository) SaveSyncState(ctx context.Context, state models.SyncState) error {
	log := logger.FromContext(ctx)

	var lastSync sql.NullTime
	if state.LastSync != nil {
		lastSync = sql.NullTime{Time: *state.LastSync, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, saveSyncState, state.ClientID, state.SyncVersion, lastSync)
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.SaveSyncState").
			Str("client_id", state.ClientID).
			Uint64("sync_version", state.SyncVersion).
			Msg("failed to save sync state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// initState writes the initial cursor row with a new client ID and
// SyncVersion 0. Called once per installation.
func (s *syncStateRepository) initState(ctx context.Context) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	state := models.SyncState{
		ClientID:    uuid.NewString(),
		SyncVersion: 0,
	}

	if _, err := s.DB.ExecContext(ctx, initSyncState, state.ClientID); err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.initState").
			Str("client_id", state.ClientID).
			Msg("failed to initialise sync state")
		return models.SyncState{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Info().
		Str("func", "syncStateRepository.initState").
		Str("client_id", state.ClientID).
		Msg("initialised sync state for new installation")

	return state, nil
}
