package config

import (
	"fmt"
	"time"
)

// ClientSecurity holds encryption-at-rest settings for the client store.
type ClientSecurity struct {
	// EncryptionEnabled toggles field encryption in the local store.
	EncryptionEnabled bool
	// KeyFilePath is the path of the raw data key file.
	KeyFilePath string
	// RotateKey runs a one-shot key rotation instead of the daemon.
	RotateKey bool
}

// ClientSync holds the client's remote-peer settings.
type ClientSync struct {
	// Enabled toggles the background sync job.
	Enabled bool
	// Endpoint is the sync server base URL.
	Endpoint string
	// APIKey authenticates this installation with the sync server.
	APIKey string
	// Interval defines how often the background sync job runs.
	Interval time.Duration
	// RequestTimeout is the timeout for outbound sync requests.
	RequestTimeout time.Duration
	// Compression toggles gzip compression of sync request bodies.
	Compression bool
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Security contains encryption-at-rest settings.
	Security ClientSecurity
	// Sync contains remote-peer and scheduling settings.
	Sync ClientSync
	// Storage contains client storage settings.
	Storage ClientStorage
}

// GetClientConfig builds and validates a client-specific config view from
// the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, applies defaults, and validates the
// resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Security: ClientSecurity{
			EncryptionEnabled: cfg.Security.EncryptionEnabled,
			KeyFilePath:       cfg.Security.KeyFilePath,
			RotateKey:         cfg.Security.RotateKey,
		},
		Sync: ClientSync{
			Enabled:        cfg.Sync.Enabled,
			Endpoint:       cfg.Sync.Endpoint,
			APIKey:         cfg.Sync.APIKey,
			Interval:       cfg.Sync.Interval,
			RequestTimeout: cfg.Sync.RequestTimeout,
			Compression:    cfg.Sync.Compression,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Sync.Interval <= 0 {
		cfg.Sync.Interval = 5 * time.Minute
	}
	if cfg.Sync.RequestTimeout <= 0 {
		cfg.Sync.RequestTimeout = 30 * time.Second
	}
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Security.EncryptionEnabled && cfg.Security.KeyFilePath == "" {
		return ErrInvalidSecurityConfigs
	}

	if cfg.Sync.Enabled && cfg.Sync.Endpoint == "" {
		return ErrInvalidSyncConfigs
	}

	return nil
}
