package models

import "github.com/golang-jwt/jwt/v5"

// TokenRequest is the body of POST /api/auth/token: the installation API key
// plus the client ID to embed as the token subject.
type TokenRequest struct {
	APIKey   string `json:"api_key"`
	ClientID string `json:"client_id"`
}

// Token pairs the parsed JWT with its signed compact form. The handler layer
// sends SignedString to clients; middleware works with the parsed claims.
type Token struct {
	Token        *jwt.Token
	SignedString string

	// ClientID is the authenticated installation extracted from the
	// token's subject claim.
	ClientID string
}
