// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package models

import "time"

// EntityKind identifies which table a change-log entry refers to.
type EntityKind string

const (
	EntityNote            EntityKind = "note"
	EntityVoiceAnnotation EntityKind = "voice_annotation"
	EntityTag             EntityKind = "tag"
)

// ChangeKind identifies the mutation recorded by a change-log entry.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeLogEntry is one appended record of the local mutation log. Entries
// are immutable once written: the sync engine reads them in version order,
// transmits them, and removes them from the pending set only after the
// server has confirmed the round trip.
//
// Payload is the plaintext JSON snapshot of the entity at mutation time.
// The change log lives inside the encrypted store, so the snapshot is not
// separately encrypted; on the wire it travels inside the sync request body.
type ChangeLogEntry struct {
	// ID is a random UUID assigned at append time, distinct from Version.
	// The server uses it to deduplicate retried pushes.
	ID string `json:"id"`

	EntityKind EntityKind `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	ChangeKind ChangeKind `json:"change_type"`

	// Payload is empty for delete entries.
	Payload []byte `json:"data,omitempty"`

	Timestamp time.Time `json:"timestamp"`

	// Version is the local logical clock value assigned under the change-log
	// mutex. Strictly increasing, gapless per installation.
	Version uint64 `json:"version"`
}
