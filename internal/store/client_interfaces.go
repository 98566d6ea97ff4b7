package store

import (
	"context"

	"github.com/notesafe/notesafe/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// NoteFilter narrows the result of [NoteRepository.ListNotes]. Zero values
// mean "no restriction" for that dimension.
type NoteFilter struct {
	// Tag restricts the result to notes carrying this tag.
	Tag string

	// Archived, when non-nil, restricts the result to notes whose archived
	// flag matches the pointed-to value.
	Archived *bool

	// Pinned, when non-nil, restricts the result to notes whose pinned flag
	// matches the pointed-to value.
	Pinned *bool
}

// NoteRepository is the low-level local store for notes. Content arrives and
// leaves this layer already encrypted; the repository never touches the
// cipher.
type NoteRepository interface {
	SaveNote(ctx context.Context, note models.Note) error
	GetNote(ctx context.Context, id string) (models.Note, error)
	ListNotes(ctx context.Context, filter NoteFilter) ([]models.Note, error)
	UpdateNote(ctx context.Context, note models.Note) error
	DeleteNote(ctx context.Context, id string) error
	UpsertNote(ctx context.Context, note models.Note) error
}

// AnnotationRepository is the local store for voice annotations attached to
// notes. Deleting a note cascades to its annotations at the schema level.
type AnnotationRepository interface {
	SaveAnnotation(ctx context.Context, annotation models.VoiceAnnotation) error
	GetAnnotation(ctx context.Context, id string) (models.VoiceAnnotation, error)
	ListAnnotations(ctx context.Context, noteID string) ([]models.VoiceAnnotation, error)
	UpdateAnnotation(ctx context.Context, annotation models.VoiceAnnotation) error
	DeleteAnnotation(ctx context.Context, id string) error
	UpsertAnnotation(ctx context.Context, annotation models.VoiceAnnotation) error
}

// TagRepository is the local store for tag metadata.
type TagRepository interface {
	SaveTag(ctx context.Context, tag models.Tag) error
	GetTag(ctx context.Context, id string) (models.Tag, error)
	GetTagByName(ctx context.Context, name string) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	UpdateTag(ctx context.Context, tag models.Tag) error
	DeleteTag(ctx context.Context, id string) error
	UpsertTag(ctx context.Context, tag models.Tag) error
}

// ChangeLogRepository is the append-only local mutation log. Version
// assignment is serialised one level up, in the change-log service; the
// repository only persists and reads.
type ChangeLogRepository interface {
	// MaxVersion returns the highest version ever assigned, acknowledged or
	// not. Returns 0 for an empty log.
	MaxVersion(ctx context.Context) (uint64, error)

	// Append inserts a fully-populated entry. The entry's Version must be
	// unused; the UNIQUE constraint rejects duplicates.
	Append(ctx context.Context, entry models.ChangeLogEntry) error

	// Pending returns unacknowledged entries in ascending version order.
	Pending(ctx context.Context) ([]models.ChangeLogEntry, error)

	// Acknowledge marks every entry with version <= upToVersion as
	// acknowledged. Already-acknowledged entries are unaffected, so the call
	// is idempotent.
	Acknowledge(ctx context.Context, upToVersion uint64) error
}

// SyncStateRepository persists the single synchronization cursor row.
type SyncStateRepository interface {
	// GetSyncState returns the cursor, creating the row with a fresh client
	// ID and SyncVersion 0 on first access.
	GetSyncState(ctx context.Context) (models.SyncState, error)

	// SaveSyncState overwrites the cursor.
	SaveSyncState(ctx context.Context, state models.SyncState) error
}
