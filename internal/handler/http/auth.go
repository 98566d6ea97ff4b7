// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/service"
	"github.com/notesafe/notesafe/models"
)

// issueToken exchanges the installation API key for a signed bearer token.
// The token travels back in the Authorization response header, mirroring how
// clients send it on subsequent requests.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.IssueToken(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidAPIKey):
			log.Err(err).Str("client_id", req.ClientID).Msg("invalid api key")
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during token issue")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}
