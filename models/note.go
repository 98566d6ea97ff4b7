// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

// Package models defines the shared data structures exchanged between the
// storage layer, the service layer, and the sync transport. Types here carry
// JSON tags matching the sync wire format; encrypted fields hold the base64
// blob produced by the crypto package once a record has been persisted.
package models

import "time"

// Note is the primary user-facing record. Content is the designated
// sensitive field: it is stored encrypted and only exists as plaintext while
// a record service call is in flight. Title, tags and timestamps remain in
// the clear so the store can query and sort without decrypting.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Archived  bool      `json:"is_archived"`
	Pinned    bool      `json:"is_pinned"`
}

// VoiceAnnotation is an audio clip attached to a note together with its
// transcription. AudioData and Transcription are both sensitive fields and
// pass through the cipher on every read and write.
type VoiceAnnotation struct {
	ID            string    `json:"id"`
	NoteID        string    `json:"note_id"`
	AudioData     []byte    `json:"audio_data"`
	Transcription string    `json:"transcription"`
	Timestamp     time.Time `json:"timestamp"`
	Duration      float64   `json:"duration"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Tag is pure metadata and is never encrypted; it has to stay queryable for
// filtering and autocomplete.
type Tag struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Color       string     `json:"color"`
	Description string     `json:"description,omitempty"`
	UsageCount  uint64     `json:"usage_count"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
