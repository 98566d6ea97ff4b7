// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

// Package adapter provides transport-layer abstractions for communicating
// with the notesafe sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/notesafe/notesafe/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Authenticate.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or
	// an empty string if no token has been set yet.
	Token() string

	// Authenticate exchanges the installation API key for a bearer token
	// at POST /api/auth/token and stores it via SetToken. The client ID is
	// embedded as the token subject. Returns [ErrUnauthorized] (wrapped) if
	// the server rejects the key.
	Authenticate(ctx context.Context, clientID string) error

	// Push sends pending local changes to POST /api/sync/push and returns
	// the server's verdict: the new server version, inbound changes, and
	// any detected conflicts.
	Push(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)

	// Pull requests server-side changes newer than req.SyncVersion from
	// POST /api/sync/pull without sending any local changes.
	Pull(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)
}
