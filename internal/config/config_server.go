package config

import (
	"fmt"
	"time"
)

// ServerDB contains database connection settings for the sync server.
type ServerDB struct {
	// DSN is the PostgreSQL connection string.
	DSN string
}

// ServerAuth holds token issuing parameters for the sync server.
type ServerAuth struct {
	// APIKey is the shared secret clients exchange for a bearer token.
	APIKey string
	// TokenSignKey signs and verifies issued JWT tokens.
	TokenSignKey string
	// TokenIssuer is the "iss" claim of issued tokens.
	TokenIssuer string
	// TokenDuration is the validity window of issued tokens.
	TokenDuration time.Duration
}

// ServerConfig is the top-level server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// HTTPAddress is the listen address in "host:port" format.
	HTTPAddress string
	// RequestTimeout bounds request handling.
	RequestTimeout time.Duration
	// Storage contains database settings.
	Storage ServerDB
	// Auth contains token issuing settings.
	Auth ServerAuth
}

// GetServerConfig builds and validates a server-specific config view from
// the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		Storage: ServerDB{
			DSN: cfg.Storage.DB.DSN,
		},
		Auth: ServerAuth{
			APIKey:        cfg.Auth.APIKey,
			TokenSignKey:  cfg.Auth.TokenSignKey,
			TokenIssuer:   cfg.Auth.TokenIssuer,
			TokenDuration: cfg.Auth.TokenDuration,
		},
	}
	serverCfg.applyDefaults()

	return serverCfg, serverCfg.validate()
}

func (cfg *ServerConfig) applyDefaults() {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Auth.TokenDuration <= 0 {
		cfg.Auth.TokenDuration = time.Hour
	}
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = "notesafe-server"
	}
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Auth.TokenSignKey == "" || cfg.Auth.APIKey == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
