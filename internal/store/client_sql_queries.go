// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package store

const (
	saveNote = `
		INSERT INTO notes (
			id,
			title,
			content,
			tags,
			created_at,
			updated_at,
			is_archived,
			is_pinned
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	upsertNote = `
		INSERT INTO notes (
			id,
			title,
			content,
			tags,
			created_at,
			updated_at,
			is_archived,
			is_pinned
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title       = excluded.title,
			content     = excluded.content,
			tags        = excluded.tags,
			updated_at  = excluded.updated_at,
			is_archived = excluded.is_archived,
			is_pinned   = excluded.is_pinned;`

	getNote = `
		SELECT
			id,
			title,
			content,
			tags,
			created_at,
			updated_at,
			is_archived,
			is_pinned
		FROM notes
		WHERE id = ?;`

	updateNote = `
		UPDATE notes SET
			title       = ?,
			content     = ?,
			tags        = ?,
			updated_at  = ?,
			is_archived = ?,
			is_pinned   = ?
		WHERE id = ?;`

	deleteNote = `DELETE FROM notes WHERE id = ?;`

	saveAnnotation = `
		INSERT INTO voice_annotations (
			id,
			note_id,
			audio_data,
			transcription,
			timestamp,
			duration,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?);`

	upsertAnnotation = `
		INSERT INTO voice_annotations (
			id,
			note_id,
			audio_data,
			transcription,
			timestamp,
			duration,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			note_id       = excluded.note_id,
			audio_data    = excluded.audio_data,
			transcription = excluded.transcription,
			timestamp     = excluded.timestamp,
			duration      = excluded.duration,
			updated_at    = excluded.updated_at;`

	getAnnotation = `
		SELECT
			id,
			note_id,
			audio_data,
			transcription,
			timestamp,
			duration,
			updated_at
		FROM voice_annotations
		WHERE id = ?;`

	getNoteAnnotations = `
		SELECT
			id,
			note_id,
			audio_data,
			transcription,
			timestamp,
			duration,
			updated_at
		FROM voice_annotations
		WHERE note_id = ?
		ORDER BY timestamp;`

	updateAnnotation = `
		UPDATE voice_annotations SET
			note_id       = ?,
			audio_data    = ?,
			transcription = ?,
			timestamp     = ?,
			duration      = ?,
			updated_at    = ?
		WHERE id = ?;`

	deleteAnnotation = `DELETE FROM voice_annotations WHERE id = ?;`

	saveTag = `
		INSERT INTO tags (
			id,
			name,
			color,
			description,
			usage_count,
			created_at,
			last_used,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	upsertTag = `
		INSERT INTO tags (
			id,
			name,
			color,
			description,
			usage_count,
			created_at,
			last_used,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name        = excluded.name,
			color       = excluded.color,
			description = excluded.description,
			usage_count = excluded.usage_count,
			last_used   = excluded.last_used,
			updated_at  = excluded.updated_at;`

	getTag = `
		SELECT
			id,
			name,
			color,
			description,
			usage_count,
			created_at,
			last_used,
			updated_at
		FROM tags
		WHERE id = ?;`

	getTagByName = `
		SELECT
			id,
			name,
			color,
			description,
			usage_count,
			created_at,
			last_used,
			updated_at
		FROM tags
		WHERE name = ?;`

	getAllTags = `
		SELECT
			id,
			name,
			color,
			description,
			usage_count,
			created_at,
			last_used,
			updated_at
		FROM tags
		ORDER BY name;`

	updateTag = `
		UPDATE tags SET
			name        = ?,
			color       = ?,
			description = ?,
			usage_count = ?,
			last_used   = ?,
			updated_at  = ?
		WHERE id = ?;`

	deleteTag = `DELETE FROM tags WHERE id = ?;`

	getMaxChangeLogVersion = `SELECT COALESCE(MAX(version), 0) FROM change_log;`

	appendChangeLogEntry = `
		INSERT INTO change_log (
			version,
			id,
			entity_type,
			entity_id,
			change_type,
			payload,
			timestamp,
			acknowledged
		) VALUES (?, ?, ?, ?, ?, ?, ?, 0);`

	getPendingChangeLogEntries = `
		SELECT
			version,
			id,
			entity_type,
			entity_id,
			change_type,
			payload,
			timestamp
		FROM change_log
		WHERE acknowledged = 0
		ORDER BY version;`

	acknowledgeChangeLogEntries = `
		UPDATE change_log SET acknowledged = 1
		WHERE acknowledged = 0 AND version <= ?;`

	getSyncState = `
		SELECT
			client_id,
			sync_version,
			last_sync
		FROM sync_state
		WHERE id = 1;`

	initSyncState = `
		INSERT INTO sync_state (id, client_id, sync_version, last_sync)
		VALUES (1, ?, 0, NULL);`

	saveSyncState = `
		UPDATE sync_state SET
			client_id    = ?,
			sync_version = ?,
			last_sync    = ?
		WHERE id = 1;`
)
