// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesafe/notesafe/models"
)

func postToken(t *testing.T, f *handlerFixture, req models.TokenRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(f.srv.URL+"/api/auth/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestIssueTokenReturnsBearerHeader(t *testing.T) {
	f := newHandlerFixture(t)

	resp := postToken(t, f, models.TokenRequest{APIKey: "good-key", ClientID: "client-a"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer issued-token", resp.Header.Get("Authorization"))
}

func TestIssueTokenRejectsWrongKey(t *testing.T) {
	f := newHandlerFixture(t)

	resp := postToken(t, f, models.TokenRequest{APIKey: "guessed", ClientID: "client-a"})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Authorization"))
}

func TestIssueTokenRejectsMissingClientID(t *testing.T) {
	f := newHandlerFixture(t)

	resp := postToken(t, f, models.TokenRequest{APIKey: "good-key"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIssueTokenRejectsInvalidJSON(t *testing.T) {
	f := newHandlerFixture(t)

	resp, err := http.Post(f.srv.URL+"/api/auth/token", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
