// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package adapter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

func newTestAdapter(t *testing.T, serverURL string, compress bool) *httpServerAdapter {
	t.Helper()
	log := logger.NewLogger("test")
	cfg := config.ClientSync{
		Endpoint:       serverURL,
		APIKey:         "test-api-key",
		RequestTimeout: 5 * time.Second,
		Compression:    compress,
	}

	a, err := NewHTTPServerAdapter(cfg, log)
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func okSyncResponse(serverVersion uint64) models.SyncResponse {
	return models.SyncResponse{Success: true, ServerVersion: serverVersion}
}

// ── NewHTTPServerAdapter ────────────────────────────────────────────────────

func TestNewHTTPServerAdapter_EmptyEndpoint(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientSync{}, logger.NewLogger("test"))
	require.Error(t, err)
}

func TestNormalizeBaseURL_AddsSchemeAndTrimsSlash(t *testing.T) {
	got, err := normalizeBaseURL("example.com:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:8080", got)
}

// ── Authenticate ────────────────────────────────────────────────────────────

func TestAuthenticate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/token", r.URL.Path)

		var req models.TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-api-key", req.APIKey)
		assert.Equal(t, "client-a", req.ClientID)

		w.Header().Set("Authorization", "Bearer test-token")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, false)
	err := a.Authenticate(context.Background(), "client-a")

	require.NoError(t, err)
	assert.Equal(t, "test-token", a.Token())
}

func TestAuthenticate_RejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid api key"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, false)
	err := a.Authenticate(context.Background(), "client-a")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, a.Token())
}

// ── Push ────────────────────────────────────────────────────────────────────

func TestPush_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/push", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req models.SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "client-a", req.ClientID)
		assert.Len(t, req.Changes, 1)

		_ = json.NewEncoder(w).Encode(okSyncResponse(9))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, false)
	a.SetToken("test-token")

	resp, err := a.Push(context.Background(), models.SyncRequest{
		ClientID:    "client-a",
		SyncVersion: 5,
		Changes:     []models.ChangeLogEntry{{ID: "c1", EntityKind: models.EntityNote}},
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(9), resp.ServerVersion)
}

func TestPush_GzipCompression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))

		gz, err := gzip.NewReader(r.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(gz)
		require.NoError(t, err)

		var req models.SyncRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "client-a", req.ClientID)

		_ = json.NewEncoder(w).Encode(okSyncResponse(1))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, true)
	a.SetToken("test-token")

	_, err := a.Push(context.Background(), models.SyncRequest{ClientID: "client-a"})
	require.NoError(t, err)
}

func TestPush_ServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.SyncResponse{Success: false, Error: "clock skew too large"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, false)
	_, err := a.Push(context.Background(), models.SyncRequest{ClientID: "client-a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Contains(t, err.Error(), "clock skew too large")
}

func TestPush_ServiceUnavailableIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, false)
	_, err := a.Push(context.Background(), models.SyncRequest{ClientID: "client-a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryable)
}

func TestPush_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	a := newTestAdapter(t, srv.URL, false)
	_, err := a.Push(context.Background(), models.SyncRequest{ClientID: "client-a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestPush_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, false)
	_, err := a.Push(context.Background(), models.SyncRequest{ClientID: "client-a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
}

// ── Pull ────────────────────────────────────────────────────────────────────

func TestPull_SendsEmptyChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/pull", r.URL.Path)

		var req models.SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.Changes)

		resp := okSyncResponse(12)
		resp.Changes = []models.ChangeLogEntry{{ID: "s1", EntityKind: models.EntityTag, ChangeKind: models.ChangeCreate}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, false)
	a.SetToken("test-token")

	resp, err := a.Pull(context.Background(), models.SyncRequest{ClientID: "client-a", SyncVersion: 5})

	require.NoError(t, err)
	assert.Equal(t, uint64(12), resp.ServerVersion)
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, models.EntityTag, resp.Changes[0].EntityKind)
}
