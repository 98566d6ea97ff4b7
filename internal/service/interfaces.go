// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"

	"github.com/notesafe/notesafe/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService issues and validates the bearer tokens used by the sync
// endpoints.
type AuthService interface {
	// IssueToken exchanges a valid installation API key for a signed JWT
	// whose subject is the requesting client ID. Returns
	// [ErrInvalidAPIKey] when the key does not match.
	IssueToken(ctx context.Context, req models.TokenRequest) (models.Token, error)

	// ValidateToken verifies a bearer token and returns the parsed
	// [models.Token] with the client ID extracted from the subject claim.
	ValidateToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ServerSyncService applies pushed client changes and assembles pull feeds.
type ServerSyncService interface {
	// HandlePush applies req.Changes idempotently, withholding any change
	// that conflicts with a newer record written by a different client, and
	// returns the response the client reconciles against: the new server
	// version, inbound changes (conflicted entities excluded), and the
	// conflict list.
	HandlePush(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)

	// HandlePull returns changes newer than req.SyncVersion without
	// applying anything.
	HandlePull(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)
}
