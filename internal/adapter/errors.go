package adapter

import "errors"

var (
	// ErrUnauthorized is returned for 401 responses: the API key or bearer
	// token was rejected.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrNetwork is returned when the request never produced an HTTP
	// response (timeout, refused connection, DNS failure). Safe to retry on
	// the next sync cycle.
	ErrNetwork = errors.New("network error")

	// ErrRetryable is returned for 502/503 responses: the server is
	// temporarily unable to apply changes and the cycle should be retried.
	ErrRetryable = errors.New("server temporarily unavailable")

	// ErrProtocol is returned when the server answered but the exchange is
	// unusable: undecodable body, unexpected status, or a response with
	// Success set to false.
	ErrProtocol = errors.New("sync protocol error")
)
