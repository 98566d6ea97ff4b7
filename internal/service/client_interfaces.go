// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"
	"time"

	"github.com/notesafe/notesafe/internal/crypto"
	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// RecordService is the client-side contract for managing notes, voice
// annotations and tags. Implementations encrypt designated fields before
// they reach the local store, decrypt them on the way out, and append a
// change-log entry for every successful mutation.
type RecordService interface {
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	GetNote(ctx context.Context, id string) (models.Note, error)
	ListNotes(ctx context.Context, filter store.NoteFilter) ([]models.Note, error)
	UpdateNote(ctx context.Context, note models.Note) (models.Note, error)
	DeleteNote(ctx context.Context, id string) error

	CreateAnnotation(ctx context.Context, annotation models.VoiceAnnotation) (models.VoiceAnnotation, error)
	GetAnnotation(ctx context.Context, id string) (models.VoiceAnnotation, error)
	ListAnnotations(ctx context.Context, noteID string) ([]models.VoiceAnnotation, error)
	UpdateAnnotation(ctx context.Context, annotation models.VoiceAnnotation) (models.VoiceAnnotation, error)
	DeleteAnnotation(ctx context.Context, id string) error

	CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	GetTag(ctx context.Context, id string) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	UpdateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	// ApplyRemote applies one change received from the sync server:
	// create/update become an upsert by entity ID, delete removes. Remote
	// payloads are plaintext snapshots; designated fields are re-encrypted
	// before storage. No change-log entry is appended, so applied remote
	// changes are never echoed back.
	ApplyRemote(ctx context.Context, change models.ChangeLogEntry) error

	// ReencryptAll decrypts every sensitive field with oldCtx and re-encrypts
	// it with newCtx, record by record. A record that fails to decrypt is
	// skipped and counted; unrelated records still proceed. Returns the
	// number of re-encrypted and failed records.
	ReencryptAll(ctx context.Context, oldCtx, newCtx *crypto.Context) (reencrypted, failed int, err error)
}

// ChangeLogService serialises change-log writes so that versions are
// strictly increasing and gapless even under concurrent mutations.
type ChangeLogService interface {
	// Record assigns the next version under the service mutex, stamps the
	// entry, and appends it. Payload is the plaintext JSON snapshot of the
	// entity after the mutation, or nil for a delete.
	Record(ctx context.Context, entityKind models.EntityKind, entityID string, changeKind models.ChangeKind, payload []byte) (models.ChangeLogEntry, error)

	// Pending returns unacknowledged entries in version order.
	Pending(ctx context.Context) ([]models.ChangeLogEntry, error)

	// Acknowledge marks entries with version <= upToVersion as sent.
	Acknowledge(ctx context.Context, upToVersion uint64) error
}

// SyncService drives the client side of the synchronization protocol.
type SyncService interface {
	// Sync runs one full push/pull cycle. All failures leave the change log
	// and the sync cursor untouched so the next cycle simply retries.
	Sync(ctx context.Context) error

	// Pull applies inbound server changes without pushing local ones.
	Pull(ctx context.Context) error

	// State reports the sync engine's current phase, for diagnostics.
	State() SyncPhase
}

// SyncJob is a background worker that periodically calls SyncService.Sync.
type SyncJob interface {
	// Start launches the background sync goroutine. It syncs every
	// interval, defaulting to 5 minutes if interval is zero or negative.
	// Any previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}
