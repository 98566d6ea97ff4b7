// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/notesafe/notesafe/internal/adapter"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/models"
)

// SyncPhase is the sync engine's current position in a cycle, exposed for
// diagnostics and tests.
type SyncPhase int32

const (
	PhaseIdle SyncPhase = iota
	PhasePushing
	PhaseAwaitingResponse
	PhaseReconciling
	PhaseFailed
)

// String implements fmt.Stringer for log output.
func (p SyncPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePushing:
		return "pushing"
	case PhaseAwaitingResponse:
		return "awaiting_response"
	case PhaseReconciling:
		return "reconciling"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// syncService implements [SyncService]. One cycle runs at a time; the sync
// cursor and the pending change-log set advance only after the server has
// confirmed the full round trip, so any failure, crash, or cancellation
// leaves the engine in a state where the next cycle simply retries.
type syncService struct {
	records   RecordService
	changeLog ChangeLogService
	syncState store.SyncStateRepository
	adapter   adapter.ServerAdapter

	mu    sync.Mutex
	phase atomic.Int32

	logger *logger.Logger
}

// NewSyncService constructs a [SyncService].
func NewSyncService(records RecordService, changeLog ChangeLogService, syncState store.SyncStateRepository, serverAdapter adapter.ServerAdapter, logger *logger.Logger) SyncService {
	return &syncService{
		records:   records,
		changeLog: changeLog,
		syncState: syncState,
		adapter:   serverAdapter,
		logger:    logger,
	}
}

// State implements [SyncService].
func (s *syncService) State() SyncPhase {
	return SyncPhase(s.phase.Load())
}

func (s *syncService) setPhase(p SyncPhase) {
	s.phase.Store(int32(p))
}

// Sync implements [SyncService]. The cycle is
// push → await response → reconcile; acknowledgement of pushed entries and
// the cursor advance happen strictly after every inbound change has been
// applied.
func (s *syncService) Sync(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrSyncInProgress
	}
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)

	err := s.runCycle(ctx)
	if err != nil {
		s.setPhase(PhaseFailed)
		log.Err(err).
			Str("func", "syncService.Sync").
			Msg("sync cycle failed, pending changes retained for retry")
		return err
	}

	s.setPhase(PhaseIdle)
	return nil
}

func (s *syncService) runCycle(ctx context.Context) error {
	log := logger.FromContext(ctx)

	state, err := s.syncState.GetSyncState(ctx)
	if err != nil {
		return fmt.Errorf("load sync state: %w", err)
	}

	if err = s.ensureToken(ctx, state.ClientID); err != nil {
		return err
	}

	s.setPhase(PhasePushing)

	pending, err := s.changeLog.Pending(ctx)
	if err != nil {
		return fmt.Errorf("load pending changes: %w", err)
	}

	req := models.SyncRequest{
		ClientID:    state.ClientID,
		SyncVersion: state.SyncVersion,
		Changes:     pending,
		LastSync:    state.LastSync,
	}

	s.setPhase(PhaseAwaitingResponse)

	resp, err := s.push(ctx, state.ClientID, req)
	if err != nil {
		return err
	}

	s.setPhase(PhaseReconciling)

	serverVersion := resp.ServerVersion

	// Conflicts first: the server withheld those changes, and the outcome
	// decides whether we overwrite local state or push the local side again.
	rePush, err := s.resolveConflicts(ctx, state.ClientID, resp.Conflicts, pending)
	if err != nil {
		return err
	}

	for _, change := range resp.Changes {
		if err = s.records.ApplyRemote(ctx, change); err != nil {
			return fmt.Errorf("apply remote change %s: %w", change.ID, err)
		}
	}

	if len(rePush) > 0 {
		// Local side won some conflicts: send those changes once more, now
		// against the fresh cursor so the server accepts them.
		retryReq := models.SyncRequest{
			ClientID:    state.ClientID,
			SyncVersion: serverVersion,
			Changes:     rePush,
			LastSync:    state.LastSync,
		}
		retryResp, retryErr := s.push(ctx, state.ClientID, retryReq)
		if retryErr != nil {
			return fmt.Errorf("re-push winning local changes: %w", retryErr)
		}
		serverVersion = retryResp.ServerVersion
	}

	// The round trip is verified: advance the cursor, then retire exactly
	// the versions that were pushed.
	now := time.Now().UTC()
	state.SyncVersion = serverVersion
	state.LastSync = &now
	if err = s.syncState.SaveSyncState(ctx, state); err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}

	if len(pending) > 0 {
		lastPushed := pending[len(pending)-1].Version
		if err = s.changeLog.Acknowledge(ctx, lastPushed); err != nil {
			return fmt.Errorf("acknowledge pushed changes: %w", err)
		}
	}

	log.Info().
		Str("func", "syncService.Sync").
		Int("pushed", len(pending)).
		Int("pulled", len(resp.Changes)).
		Int("conflicts", len(resp.Conflicts)).
		Uint64("server_version", serverVersion).
		Msg("sync cycle completed")

	return nil
}

// Pull implements [SyncService]. It applies inbound changes without sending
// any local ones; the pending set is untouched.
func (s *syncService) Pull(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrSyncInProgress
	}
	defer s.mu.Unlock()

	state, err := s.syncState.GetSyncState(ctx)
	if err != nil {
		s.setPhase(PhaseFailed)
		return fmt.Errorf("load sync state: %w", err)
	}

	if err = s.ensureToken(ctx, state.ClientID); err != nil {
		s.setPhase(PhaseFailed)
		return err
	}

	s.setPhase(PhaseAwaitingResponse)

	resp, err := s.adapter.Pull(ctx, models.SyncRequest{
		ClientID:    state.ClientID,
		SyncVersion: state.SyncVersion,
		LastSync:    state.LastSync,
	})
	if err != nil {
		s.setPhase(PhaseFailed)
		return err
	}

	s.setPhase(PhaseReconciling)

	for _, change := range resp.Changes {
		if err = s.records.ApplyRemote(ctx, change); err != nil {
			s.setPhase(PhaseFailed)
			return fmt.Errorf("apply remote change %s: %w", change.ID, err)
		}
	}

	now := time.Now().UTC()
	state.SyncVersion = resp.ServerVersion
	state.LastSync = &now
	if err = s.syncState.SaveSyncState(ctx, state); err != nil {
		s.setPhase(PhaseFailed)
		return fmt.Errorf("save sync state: %w", err)
	}

	s.setPhase(PhaseIdle)
	return nil
}

// ensureToken authenticates on first use. An expired token is handled in
// push via a single re-authentication retry.
func (s *syncService) ensureToken(ctx context.Context, clientID string) error {
	if s.adapter.Token() != "" {
		return nil
	}
	if err := s.adapter.Authenticate(ctx, clientID); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	return nil
}

// push sends req, re-authenticating once on 401 to survive token expiry.
func (s *syncService) push(ctx context.Context, clientID string, req models.SyncRequest) (models.SyncResponse, error) {
	resp, err := s.adapter.Push(ctx, req)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, adapter.ErrUnauthorized) {
		return models.SyncResponse{}, err
	}

	if authErr := s.adapter.Authenticate(ctx, clientID); authErr != nil {
		return models.SyncResponse{}, fmt.Errorf("re-authenticate: %w", authErr)
	}
	return s.adapter.Push(ctx, req)
}

// resolveConflicts applies last-writer-wins to each reported conflict.
// Remote wins are applied to the local store immediately; local wins are
// collected for a follow-up push. pending supplies the local change entry
// for each conflicted entity (the newest one wins when several exist).
func (s *syncService) resolveConflicts(ctx context.Context, clientID string, conflicts []models.Conflict, pending []models.ChangeLogEntry) ([]models.ChangeLogEntry, error) {
	if len(conflicts) == 0 {
		return nil, nil
	}

	log := logger.FromContext(ctx)

	latest := make(map[string]models.ChangeLogEntry, len(pending))
	for _, entry := range pending {
		latest[entry.EntityID] = entry // pending is version-ordered
	}

	var rePush []models.ChangeLogEntry

	for _, conflict := range conflicts {
		localEntry, ok := latest[conflict.EntityID]
		if !ok {
			// The server reported a conflict for an entity we did not push
			// this cycle; treat the remote side as authoritative.
			if err := s.adoptRemote(ctx, conflict); err != nil {
				return nil, err
			}
			continue
		}

		localTS := payloadUpdatedAt(localEntry.Payload, localEntry.Timestamp)
		remoteTS := payloadUpdatedAt(conflict.RemotePayload, conflict.RemoteUpdatedAt)

		resolution := resolve(localTS, remoteTS, clientID, conflict.RemoteOrigin)

		log.Info().
			Str("func", "syncService.resolveConflicts").
			Str("entity_id", conflict.EntityID).
			Str("entity_type", string(conflict.EntityKind)).
			Time("local_updated_at", localTS).
			Time("remote_updated_at", remoteTS).
			Str("resolution", resolution.String()).
			Msg("resolved sync conflict")

		switch resolution {
		case models.KeepLocal:
			rePush = append(rePush, localEntry)
		case models.AdoptRemote:
			if err := s.adoptRemote(ctx, conflict); err != nil {
				return nil, err
			}
		}
	}

	return rePush, nil
}

// adoptRemote overwrites the local entity with the server-side state.
func (s *syncService) adoptRemote(ctx context.Context, conflict models.Conflict) error {
	change := models.ChangeLogEntry{
		EntityKind: conflict.EntityKind,
		EntityID:   conflict.EntityID,
		ChangeKind: models.ChangeUpdate,
		Payload:    conflict.RemotePayload,
		Timestamp:  conflict.RemoteUpdatedAt,
	}
	if conflict.RemoteDeleted {
		change.ChangeKind = models.ChangeDelete
		change.Payload = nil
	}

	if err := s.records.ApplyRemote(ctx, change); err != nil {
		return fmt.Errorf("adopt remote state for %s: %w", conflict.EntityID, err)
	}
	return nil
}

// resolve picks the winner of one conflict. Later updated_at wins; an exact
// tie goes to the side whose origin ID sorts lexicographically lower, so
// both sides of any pair reach the same verdict independently.
func resolve(localTS, remoteTS time.Time, localOrigin, remoteOrigin string) models.Resolution {
	if localTS.After(remoteTS) {
		return models.KeepLocal
	}
	if remoteTS.After(localTS) {
		return models.AdoptRemote
	}

	if localOrigin <= remoteOrigin {
		return models.KeepLocal
	}
	return models.AdoptRemote
}

// payloadUpdatedAt extracts the updated_at field from a snapshot, falling
// back to fallback for deletes and undecodable payloads.
func payloadUpdatedAt(payload []byte, fallback time.Time) time.Time {
	if len(payload) == 0 {
		return fallback
	}

	var probe struct {
		UpdatedAt time.Time `json:"updated_at"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil || probe.UpdatedAt.IsZero() {
		return fallback
	}
	return probe.UpdatedAt
}
