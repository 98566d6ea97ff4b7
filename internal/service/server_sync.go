// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/internal/validators"
	"github.com/notesafe/notesafe/models"
)

// serverSyncService implements [ServerSyncService] on top of the record
// repository.
//
// Conflict rule: a pushed change is withheld when the stored record is newer
// than the version horizon the client reports AND was last written by a
// different client. Changes the client retries (same origin) or that build
// on the current record pass straight through to the idempotent apply.
type serverSyncService struct {
	records   store.RecordRepository
	validator validators.Validator

	logger *logger.Logger
}

// NewServerSyncService constructs a [ServerSyncService].
func NewServerSyncService(records store.RecordRepository, logger *logger.Logger) ServerSyncService {
	return &serverSyncService{
		records:   records,
		validator: validators.NewChangeValidator(),
		logger:    logger,
	}
}

// HandlePush implements [ServerSyncService].
func (s *serverSyncService) HandlePush(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	var conflicts []models.Conflict
	conflicted := make(map[string]struct{})

	for _, change := range req.Changes {
		conflict, isConflict, err := s.detectConflict(ctx, req, change)
		if err != nil {
			return models.SyncResponse{}, err
		}
		if isConflict {
			conflicts = append(conflicts, conflict)
			conflicted[change.EntityID] = struct{}{}
			continue
		}

		if _, err = s.records.ApplyChange(ctx, req.ClientID, change); err != nil {
			return models.SyncResponse{}, fmt.Errorf("apply change %s: %w", change.ID, err)
		}
	}

	resp, err := s.assembleResponse(ctx, req, conflicted)
	if err != nil {
		return models.SyncResponse{}, err
	}
	resp.Conflicts = conflicts

	log.Info().
		Str("func", "serverSyncService.HandlePush").
		Str("client_id", req.ClientID).
		Int("received", len(req.Changes)).
		Int("conflicts", len(conflicts)).
		Int("outbound", len(resp.Changes)).
		Uint64("server_version", resp.ServerVersion).
		Msg("processed push")

	return resp, nil
}

// HandlePull implements [ServerSyncService].
func (s *serverSyncService) HandlePull(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req, validators.FieldClientID); err != nil {
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	resp, err := s.assembleResponse(ctx, req, nil)
	if err != nil {
		return models.SyncResponse{}, err
	}

	log.Info().
		Str("func", "serverSyncService.HandlePull").
		Str("client_id", req.ClientID).
		Int("outbound", len(resp.Changes)).
		Uint64("server_version", resp.ServerVersion).
		Msg("processed pull")

	return resp, nil
}

// detectConflict checks one pushed change against the stored record.
func (s *serverSyncService) detectConflict(ctx context.Context, req models.SyncRequest, change models.ChangeLogEntry) (models.Conflict, bool, error) {
	record, err := s.records.GetRecord(ctx, change.EntityID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.Conflict{}, false, nil
	}
	if err != nil {
		return models.Conflict{}, false, fmt.Errorf("load record %s: %w", change.EntityID, err)
	}

	if record.Version <= req.SyncVersion || record.Origin == req.ClientID {
		return models.Conflict{}, false, nil
	}

	return models.Conflict{
		EntityID:        change.EntityID,
		EntityKind:      change.EntityKind,
		LocalVersion:    change.Version,
		RemoteVersion:   record.Version,
		LocalPayload:    change.Payload,
		RemotePayload:   record.Payload,
		RemoteOrigin:    record.Origin,
		RemoteUpdatedAt: record.UpdatedAt,
		RemoteDeleted:   record.Deleted,
	}, true, nil
}

// assembleResponse builds the outbound change feed and advances the caller's
// cursor. Records for conflicted entities are withheld: the client resolves
// those through the conflict list instead.
func (s *serverSyncService) assembleResponse(ctx context.Context, req models.SyncRequest, conflicted map[string]struct{}) (models.SyncResponse, error) {
	records, err := s.records.ChangesSince(ctx, req.SyncVersion, req.ClientID)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("collect changes since %d: %w", req.SyncVersion, err)
	}

	changes := make([]models.ChangeLogEntry, 0, len(records))
	for _, record := range records {
		if _, ok := conflicted[record.EntityID]; ok {
			continue
		}
		changes = append(changes, recordToChange(record))
	}

	serverVersion, err := s.records.CurrentVersion(ctx)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("read server version: %w", err)
	}

	if err = s.records.SaveCursor(ctx, req.ClientID, serverVersion, time.Now().UTC()); err != nil {
		return models.SyncResponse{}, fmt.Errorf("save client cursor: %w", err)
	}

	return models.SyncResponse{
		Success:       true,
		ServerVersion: serverVersion,
		Changes:       changes,
	}, nil
}

// recordToChange converts a stored record into the wire change format. The
// change kind collapses to update/delete: the receiving side upserts, so the
// create/update distinction carries no information across installations.
func recordToChange(record store.Record) models.ChangeLogEntry {
	change := models.ChangeLogEntry{
		ID:         fmt.Sprintf("%s@%d", record.EntityID, record.Version),
		EntityKind: record.EntityKind,
		EntityID:   record.EntityID,
		ChangeKind: models.ChangeUpdate,
		Payload:    record.Payload,
		Timestamp:  record.UpdatedAt,
		Version:    record.Version,
	}
	if record.Deleted {
		change.ChangeKind = models.ChangeDelete
		change.Payload = nil
	}
	return change
}
