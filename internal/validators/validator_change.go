package validators

import (
	"context"
	"fmt"

	"github.com/notesafe/notesafe/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldClientID targets the client identifier of a sync request.
	FieldClientID = "client_id"

	// FieldChanges targets the change list of a sync request.
	FieldChanges = "changes"

	// FieldChangeID targets the unique identifier of one change entry.
	FieldChangeID = "change_id"

	// FieldEntityID targets the entity identifier of one change entry.
	FieldEntityID = "entity_id"

	// FieldEntityKind targets the entity type field (note, voice_annotation, tag).
	FieldEntityKind = "entity_type"

	// FieldChangeKind targets the change type field (create, update, delete).
	FieldChangeKind = "change_type"

	// FieldVersion targets the local logical clock value of one change entry.
	FieldVersion = "version"

	// FieldPayload targets the snapshot payload: required for create and
	// update, forbidden for delete.
	FieldPayload = "payload"

	// FieldTimestamp targets the mutation timestamp of one change entry.
	FieldTimestamp = "timestamp"
)

// allowedEntityKinds is the exhaustive set of EntityKind values accepted by
// the validator. Any kind not present in this slice is considered invalid.
var allowedEntityKinds = []models.EntityKind{
	models.EntityNote,
	models.EntityVoiceAnnotation,
	models.EntityTag,
}

// allowedChangeKinds is the exhaustive set of ChangeKind values accepted by
// the validator.
var allowedChangeKinds = []models.ChangeKind{
	models.ChangeCreate,
	models.ChangeUpdate,
	models.ChangeDelete,
}

// ChangeValidator checks sync requests and individual change-log entries
// before they reach the record store.
type ChangeValidator struct {
}

func NewChangeValidator() Validator {
	return &ChangeValidator{}
}

func (v *ChangeValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncRequest:
		return v.validateSyncRequest(ctx, value, fields...)
	case *models.SyncRequest:
		return v.validateSyncRequest(ctx, *value, fields...)

	case models.ChangeLogEntry:
		return v.validateChange(ctx, value, fields...)
	case *models.ChangeLogEntry:
		return v.validateChange(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func isValidEntityKind(kind models.EntityKind) bool {
	for _, k := range allowedEntityKinds {
		if kind == k {
			return true
		}
	}
	return false
}

func isValidChangeKind(kind models.ChangeKind) bool {
	for _, k := range allowedChangeKinds {
		if kind == k {
			return true
		}
	}
	return false
}

func (v *ChangeValidator) validateSyncRequest(ctx context.Context, request models.SyncRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldClientID, FieldChanges}
	}

	for _, f := range fields {
		switch f {
		case FieldClientID:
			if request.ClientID == "" {
				return ErrEmptyClientID
			}
		case FieldChanges:
			// An empty list is a pull: nothing to check.
			for i, change := range request.Changes {
				if err := v.validateChange(ctx, change); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ChangeValidator) validateChange(ctx context.Context, change models.ChangeLogEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldChangeID, FieldEntityID, FieldEntityKind, FieldChangeKind, FieldVersion, FieldPayload, FieldTimestamp}
	}

	for _, f := range fields {
		switch f {
		case FieldChangeID:
			if change.ID == "" {
				return ErrEmptyChangeID
			}
		case FieldEntityID:
			if change.EntityID == "" {
				return ErrEmptyEntityID
			}
		case FieldEntityKind:
			if !isValidEntityKind(change.EntityKind) {
				return ErrInvalidEntity
			}
		case FieldChangeKind:
			if !isValidChangeKind(change.ChangeKind) {
				return ErrInvalidChange
			}
		case FieldVersion:
			if change.Version == 0 {
				return ErrInvalidVersion
			}
		case FieldPayload:
			if change.ChangeKind == models.ChangeDelete {
				if len(change.Payload) != 0 {
					return ErrPayloadOnDelete
				}
			} else if len(change.Payload) == 0 {
				return ErrEmptyPayload
			}
		case FieldTimestamp:
			if change.Timestamp.IsZero() {
				return ErrEmptyTimestamp
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
