// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package store

const (
	getRecord = `
		SELECT
			entity_id,
			entity_type,
			payload,
			version,
			origin,
			deleted,
			updated_at
		FROM records
		WHERE entity_id = $1;`

	getAppliedChange = `
		SELECT version
		FROM applied_changes
		WHERE client_id = $1 AND change_id = $2;`

	tickSyncClock = `
		UPDATE sync_clock SET version = version + 1
		WHERE id = 1
		RETURNING version;`

	getSyncClock = `SELECT version FROM sync_clock WHERE id = 1;`

	upsertRecord = `
		INSERT INTO records (
			entity_id,
			entity_type,
			payload,
			version,
			origin,
			deleted,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (entity_id) DO UPDATE SET
			entity_type = excluded.entity_type,
			payload     = excluded.payload,
			version     = excluded.version,
			origin      = excluded.origin,
			deleted     = excluded.deleted,
			updated_at  = excluded.updated_at;`

	markChangeApplied = `
		INSERT INTO applied_changes (client_id, change_id, version)
		VALUES ($1, $2, $3);`

	saveClientCursor = `
		INSERT INTO client_cursors (client_id, sync_version, last_sync)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id) DO UPDATE SET
			sync_version = excluded.sync_version,
			last_sync    = excluded.last_sync;`
)
