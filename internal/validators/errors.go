package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyClientID    = errors.New("client ID is required")
	ErrEmptyChangeID    = errors.New("change ID is required")
	ErrEmptyEntityID    = errors.New("entity ID is required")
	ErrInvalidEntity    = errors.New("invalid entity type")
	ErrInvalidChange    = errors.New("invalid change type")
	ErrInvalidVersion   = errors.New("invalid version")
	ErrEmptyPayload     = errors.New("payload is required for create and update")
	ErrPayloadOnDelete  = errors.New("delete must not carry a payload")
	ErrEmptyTimestamp   = errors.New("timestamp is required")
)
