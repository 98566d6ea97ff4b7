// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package http

import (
	"encoding/json"
	"net/http"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/utils"
	"github.com/notesafe/notesafe/models"
)

// push applies a batch of client changes and returns the reconciliation
// response. The client ID always comes from the validated token, never from
// the request body.
func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	req, ok := h.decodeSyncRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.services.SyncService.HandlePush(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.push").Str("client_id", req.ClientID).Msg("error processing push")
		http.Error(w, "error processing push", h.statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// pull returns server-side changes newer than the client's cursor.
func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	req, ok := h.decodeSyncRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.services.SyncService.HandlePull(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pull").Str("client_id", req.ClientID).Msg("error processing pull")
		http.Error(w, "error processing pull", h.statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// decodeSyncRequest decodes the body and stamps the authenticated client ID
// over whatever the body claims. Writes the error response itself when the
// request is unusable.
func (h *Handler) decodeSyncRequest(w http.ResponseWriter, r *http.Request) (models.SyncRequest, bool) {
	log := logger.FromRequest(r)

	var req models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return models.SyncRequest{}, false
	}

	clientID, found := utils.GetClientIDFromContext(r.Context())
	if !found {
		log.Error().Msg("no client ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return models.SyncRequest{}, false
	}
	req.ClientID = clientID

	return req, true
}
