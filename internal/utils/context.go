// Package utils provides general-purpose helper utilities used across
// different parts of the application. Includes tools for working with
// context, type-safe keys, HTTP response writing, HTTP client
// initialization, JWT token generation and validation, and other common
// operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// ClientIDCtxKey is the key used to store the authenticated installation
// identifier in the context. Set by the auth middleware after token
// validation; read by the sync handlers.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.ClientIDCtxKey, "b3c1...")
var ClientIDCtxKey = contextKey("clientID")

// GetClientIDFromContext retrieves the installation identifier from the
// context.
//
// Returns the client ID and an ok flag:
//   - ok == true  — value is found and has the correct string type
//   - ok == false — value is missing or has an unexpected type
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDCtxKey).(string)
	return clientID, ok
}
