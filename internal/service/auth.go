// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/utils"
	"github.com/notesafe/notesafe/models"
)

// authService implements [AuthService] with HMAC-signed JWTs. The API key is
// a shared installation secret; the token it buys carries the client ID as
// subject so handlers never trust a client-supplied ID directly.
type authService struct {
	cfg config.ServerAuth

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] from the server auth settings.
func NewAuthService(cfg config.ServerAuth, logger *logger.Logger) AuthService {
	return &authService{
		cfg:    cfg,
		logger: logger,
	}
}

// IssueToken implements [AuthService].
func (a *authService) IssueToken(ctx context.Context, req models.TokenRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if req.ClientID == "" {
		return models.Token{}, fmt.Errorf("%w: client id is required", ErrInvalidDataProvided)
	}
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(a.cfg.APIKey)) != 1 {
		log.Warn().
			Str("func", "authService.IssueToken").
			Str("client_id", req.ClientID).
			Msg("rejected token request with invalid api key")
		return models.Token{}, ErrInvalidAPIKey
	}

	token, err := utils.GenerateJWTToken(a.cfg.TokenIssuer, req.ClientID, a.cfg.TokenDuration, a.cfg.TokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("generate token: %w", err)
	}

	log.Info().
		Str("func", "authService.IssueToken").
		Str("client_id", req.ClientID).
		Msg("issued bearer token")

	return token, nil
}

// ValidateToken implements [AuthService].
func (a *authService) ValidateToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.cfg.TokenSignKey, a.cfg.TokenIssuer)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return token, nil
}
