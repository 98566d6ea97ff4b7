package store

import (
	"context"
	"time"

	"github.com/notesafe/notesafe/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Record is the server-side materialised view of one entity: the latest
// payload snapshot plus the logical clock value at which it was written.
type Record struct {
	EntityID   string
	EntityKind models.EntityKind

	// Payload is the JSON snapshot from the winning change. Empty for
	// deleted records.
	Payload []byte

	// Version is the server logical clock value assigned when the record
	// was last written.
	Version uint64

	// Origin is the client ID that produced the current state.
	Origin string

	Deleted   bool
	UpdatedAt time.Time
}

// AppliedChange describes the result of applying one pushed change.
type AppliedChange struct {
	// Version is the server clock value the change was assigned, or the
	// previously-assigned value when the push was a retry.
	Version uint64

	// Duplicate is true when the (client, change) pair had already been
	// applied and the push was skipped.
	Duplicate bool
}

// RecordRepository is the server-side store behind the sync endpoints. Apply
// runs each change in its own transaction so a retried push resumes exactly
// where the interrupted one stopped.
type RecordRepository interface {
	// GetRecord returns the current record for an entity id, or
	// [ErrRecordNotFound].
	GetRecord(ctx context.Context, entityID string) (Record, error)

	// ApplyChange ticks the clock, upserts the record and marks the change
	// applied, all in one transaction keyed by (clientID, change.ID). A
	// retried change returns its original version with Duplicate set and
	// mutates nothing.
	ApplyChange(ctx context.Context, clientID string, change models.ChangeLogEntry) (AppliedChange, error)

	// ChangesSince returns records written after the given clock value,
	// in ascending version order. Records whose origin equals excludeOrigin
	// are skipped so a client never receives its own pushes back.
	ChangesSince(ctx context.Context, sinceVersion uint64, excludeOrigin string) ([]Record, error)

	// CurrentVersion reads the logical clock without advancing it.
	CurrentVersion(ctx context.Context) (uint64, error)

	// SaveCursor records the clock value a client has confirmed receiving.
	SaveCursor(ctx context.Context, clientID string, syncVersion uint64, lastSync time.Time) error
}
