package config

import "errors"

// Validation errors returned by the config views when required groups are
// incomplete or invalid.
var (
	// ErrInvalidSyncConfigs indicates invalid sync settings (for example,
	// sync enabled without an endpoint, or a zero request timeout).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSecurityConfigs indicates invalid encryption settings
	// (for example, encryption enabled without a key file path).
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, a missing listen address or token sign key).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
