// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for notesafe.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Security holds encryption-at-rest settings for the local store.
	Security Security `envPrefix:"SECURITY_"`

	// Sync holds the remote-peer endpoint and scheduling settings used by
	// the sync engine.
	Sync Sync `envPrefix:"SYNC_"`

	// Storage holds configuration for the persistence backends.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the sync
	// server's HTTP listener.
	Server Server `envPrefix:"SERVER_"`

	// Auth holds token issuing and verification parameters for the server.
	Auth Auth `envPrefix:"AUTH_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Security controls encryption at rest.
type Security struct {
	// EncryptionEnabled toggles field encryption in the local store. When
	// false the store persists plaintext; intended for debugging only.
	// Env: SECURITY_ENCRYPTION_ENABLED
	EncryptionEnabled bool `env:"ENCRYPTION_ENABLED"`

	// KeyFilePath is the filesystem path of the raw 32-byte data key.
	// A missing file triggers first-run key generation.
	// Env: SECURITY_KEY_FILE
	KeyFilePath string `env:"KEY_FILE"`

	// RotateKey switches the client into key-rotation mode: instead of
	// running the daemon it re-encrypts every stored record under a fresh
	// key, replaces the key file, and exits.
	// Env: SECURITY_ROTATE_KEY
	RotateKey bool `env:"ROTATE_KEY"`
}

// Sync holds the client-side synchronization settings.
type Sync struct {
	// Enabled toggles the background sync job. Local CRUD keeps working
	// when sync is disabled or the endpoint is unreachable.
	// Env: SYNC_ENABLED
	Enabled bool `env:"ENABLED"`

	// Endpoint is the base URL of the sync server, e.g.
	// "https://sync.example.com".
	// Env: SYNC_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// APIKey authenticates this installation with the sync server. The
	// client exchanges it for a short-lived bearer token.
	// Env: SYNC_API_KEY
	APIKey string `env:"API_KEY"`

	// Interval is the period of the background sync job.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// RequestTimeout bounds every outbound sync request.
	// Env: SYNC_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Compression toggles gzip compression of sync request bodies.
	// Env: SYNC_COMPRESSION
	Compression bool `env:"COMPRESSION"`
}

// Storage groups the configuration for the persistence backends. The client
// interprets DSN as a SQLite file path; the server as a Postgres DSN.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB contains database connection settings.
type DB struct {
	// DSN is the database connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds request handling on the server side.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Auth holds token issuing and verification parameters used by the server.
type Auth struct {
	// APIKey is the shared secret clients present to obtain a bearer token.
	// Env: AUTH_API_KEY
	APIKey string `env:"API_KEY"`

	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Must be kept confidential.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "1h", "30m").
	// Env: AUTH_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// GetStructuredConfig assembles the merged configuration from environment
// variables, command-line flags, and — when one of those named a file — the
// JSON configuration file. Later sources never overwrite values already set
// by earlier ones (mergo semantics), so the precedence is env > flags > JSON.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
