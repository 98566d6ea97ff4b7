// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package models

import "time"

// SyncState is the persisted synchronization cursor of one installation.
// It is owned by the sync engine: only a completed, verified round trip may
// advance SyncVersion and LastSync, so a crash or failed cycle always leaves
// the previous cursor (and the pending change-log entries) intact.
type SyncState struct {
	// ClientID is stable per installation, generated once on first run.
	ClientID string `json:"client_id"`

	// SyncVersion is the last server-assigned logical clock value this
	// client has observed. Starts at 0 on a fresh installation.
	SyncVersion uint64 `json:"sync_version"`

	// LastSync is nil until the first successful round trip.
	LastSync *time.Time `json:"last_sync,omitempty"`
}

// SyncRequest is the push body. A pull sends the same shape with an empty
// Changes slice.
type SyncRequest struct {
	ClientID    string           `json:"client_id"`
	SyncVersion uint64           `json:"sync_version"`
	Changes     []ChangeLogEntry `json:"changes"`
	LastSync    *time.Time       `json:"last_sync,omitempty"`
}

// SyncResponse is returned by the server for both push and pull.
type SyncResponse struct {
	Success bool `json:"success"`

	// ServerVersion is the logical clock value the client must adopt as its
	// new SyncVersion after applying Changes and resolving Conflicts.
	ServerVersion uint64 `json:"server_version"`

	// Changes are server-side mutations the client has not seen yet,
	// excluding the entities reported in Conflicts.
	Changes []ChangeLogEntry `json:"changes"`

	Conflicts []Conflict `json:"conflicts"`

	// Error is set when Success is false.
	Error string `json:"error,omitempty"`
}

// Conflict reports an entity mutated on both sides since the client's last
// synchronized version. Payloads are the full JSON snapshots of each side so
// the resolution policy can compare embedded timestamps without a second
// round trip. RemotePayload is empty when the server-side state is a
// tombstone; RemoteUpdatedAt then carries the deletion time.
type Conflict struct {
	EntityID      string     `json:"entity_id"`
	EntityKind    EntityKind `json:"entity_type"`
	LocalVersion  uint64     `json:"local_version"`
	RemoteVersion uint64     `json:"server_version"`
	LocalPayload  []byte     `json:"local_data"`
	RemotePayload []byte     `json:"server_data"`

	// RemoteOrigin is the client ID that produced the server-side state,
	// used to break exact timestamp ties deterministically.
	RemoteOrigin string `json:"server_origin"`

	// RemoteUpdatedAt mirrors the server record's updated_at. Authoritative
	// when RemotePayload is empty (deleted record).
	RemoteUpdatedAt time.Time `json:"server_updated_at"`

	// RemoteDeleted marks the server-side state as a tombstone.
	RemoteDeleted bool `json:"server_deleted"`
}

// Resolution is the outcome of resolving one Conflict. Exactly one of the
// two values is produced per conflict.
type Resolution int

const (
	KeepLocal Resolution = iota
	AdoptRemote
)

// String implements fmt.Stringer for log output.
func (r Resolution) String() string {
	switch r {
	case KeepLocal:
		return "keep_local"
	case AdoptRemote:
		return "adopt_remote"
	default:
		return "unknown"
	}
}
