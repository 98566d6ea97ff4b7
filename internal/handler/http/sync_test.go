// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/models"
)

func postSync(t *testing.T, f *handlerFixture, path, token string, req models.SyncRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, f.srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPushReturnsSyncResponse(t *testing.T) {
	f := newHandlerFixture(t)
	f.sync.resp = models.SyncResponse{
		Success:       true,
		ServerVersion: 7,
		Conflicts:     []models.Conflict{{EntityID: "n1", EntityKind: models.EntityNote}},
	}

	resp := postSync(t, f, "/api/sync/push", "valid-token", models.SyncRequest{
		SyncVersion: 3,
		Changes:     []models.ChangeLogEntry{{ID: "c1", EntityID: "n1", Version: 4}},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.SyncResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, uint64(7), body.ServerVersion)
	assert.Len(t, body.Conflicts, 1)
}

func TestPushOverridesClientIDFromToken(t *testing.T) {
	f := newHandlerFixture(t)

	postSync(t, f, "/api/sync/push", "valid-token", models.SyncRequest{
		ClientID: "spoofed-id",
	})

	assert.Equal(t, "client-a", f.sync.lastPush.ClientID,
		"client ID must come from the token subject, not the body")
}

func TestPushRejectsInvalidJSON(t *testing.T) {
	f := newHandlerFixture(t)

	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/api/sync/push", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPushMapsRetryableDatabaseErrorTo503(t *testing.T) {
	f := newHandlerFixture(t)
	f.sync.err = fmt.Errorf("apply change: %w", &pgconn.PgError{Code: "40001"})

	resp := postSync(t, f, "/api/sync/push", "valid-token", models.SyncRequest{})

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPushMapsNotFoundTo404(t *testing.T) {
	f := newHandlerFixture(t)
	f.sync.err = fmt.Errorf("load record: %w", store.ErrRecordNotFound)

	resp := postSync(t, f, "/api/sync/push", "valid-token", models.SyncRequest{})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPushMapsUnknownErrorTo500(t *testing.T) {
	f := newHandlerFixture(t)
	f.sync.err = errors.New("boom")

	resp := postSync(t, f, "/api/sync/push", "valid-token", models.SyncRequest{})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPullReturnsChanges(t *testing.T) {
	f := newHandlerFixture(t)
	f.sync.resp = models.SyncResponse{
		Success:       true,
		ServerVersion: 9,
		Changes: []models.ChangeLogEntry{
			{ID: "n1@9", EntityKind: models.EntityNote, EntityID: "n1", ChangeKind: models.ChangeUpdate, Version: 9},
		},
	}

	resp := postSync(t, f, "/api/sync/pull", "valid-token", models.SyncRequest{SyncVersion: 5})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.SyncResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Changes, 1)
	assert.Equal(t, uint64(5), f.sync.lastPull.SyncVersion)
	assert.Equal(t, "client-a", f.sync.lastPull.ClientID)
}
