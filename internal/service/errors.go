package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidAPIKey is returned when a token request carries an API key
	// that does not match the server's configured key.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrInvalidToken is returned when a bearer token fails signature,
	// issuer, or expiry validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSyncInProgress is returned when Sync is called while a previous
	// cycle is still running.
	ErrSyncInProgress = errors.New("sync cycle already in progress")

	// ErrDecodePayload is returned when a change payload cannot be decoded
	// into its entity type. The sync cycle aborts before any state advance.
	ErrDecodePayload = errors.New("failed to decode change payload")

	// ErrUnknownEntityKind is returned for a change whose entity type is not
	// note, voice_annotation, or tag.
	ErrUnknownEntityKind = errors.New("unknown entity kind")

	// ErrUnknownChangeKind is returned for a change whose change type is not
	// create, update, or delete.
	ErrUnknownChangeKind = errors.New("unknown change kind")
)
