// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/service"
	"github.com/notesafe/notesafe/models"
)

// stubAuthService validates exactly one token string and issues tokens for
// exactly one API key.
type stubAuthService struct {
	apiKey     string
	validToken string
	clientID   string
}

func (s *stubAuthService) IssueToken(_ context.Context, req models.TokenRequest) (models.Token, error) {
	if req.ClientID == "" {
		return models.Token{}, service.ErrInvalidDataProvided
	}
	if req.APIKey != s.apiKey {
		return models.Token{}, service.ErrInvalidAPIKey
	}
	return models.Token{SignedString: "issued-token", ClientID: req.ClientID}, nil
}

func (s *stubAuthService) ValidateToken(_ context.Context, tokenString string) (models.Token, error) {
	if tokenString != s.validToken {
		return models.Token{}, service.ErrInvalidToken
	}
	return models.Token{ClientID: s.clientID}, nil
}

// stubSyncService records the last request and replays canned results.
type stubSyncService struct {
	lastPush models.SyncRequest
	lastPull models.SyncRequest
	resp     models.SyncResponse
	err      error
}

func (s *stubSyncService) HandlePush(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	s.lastPush = req
	if s.err != nil {
		return models.SyncResponse{}, s.err
	}
	return s.resp, nil
}

func (s *stubSyncService) HandlePull(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	s.lastPull = req
	if s.err != nil {
		return models.SyncResponse{}, s.err
	}
	return s.resp, nil
}

type handlerFixture struct {
	auth *stubAuthService
	sync *stubSyncService
	srv  *httptest.Server
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	f := &handlerFixture{
		auth: &stubAuthService{apiKey: "good-key", validToken: "valid-token", clientID: "client-a"},
		sync: &stubSyncService{resp: models.SyncResponse{Success: true, ServerVersion: 1}},
	}
	h := NewHandler(&service.Services{
		AuthService: f.auth,
		SyncService: f.sync,
	}, logger.NewLogger("test"))

	f.srv = httptest.NewServer(h.Init())
	t.Cleanup(f.srv.Close)
	return f
}

// ── Routing ─────────────────────────────────────────────────────────────────

func TestRouterUnknownRoute(t *testing.T) {
	f := newHandlerFixture(t)

	resp, err := http.Get(f.srv.URL + "/api/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouterSyncEndpointsRequireToken(t *testing.T) {
	f := newHandlerFixture(t)

	for _, path := range []string{"/api/sync/push", "/api/sync/pull"} {
		resp, err := http.Post(f.srv.URL+path, "application/json", nil)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestRouterHealthIsUnauthenticated(t *testing.T) {
	f := newHandlerFixture(t)

	resp, err := http.Get(f.srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterEchoesTraceID(t *testing.T) {
	f := newHandlerFixture(t)

	req, _ := http.NewRequest(http.MethodGet, f.srv.URL+"/api/health", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()
	assert.Equal(t, "trace-123", resp.Header.Get("X-Trace-ID"))
}
