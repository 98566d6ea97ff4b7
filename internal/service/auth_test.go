package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/models"
)

func newTestAuthService() AuthService {
	return NewAuthService(config.ServerAuth{
		APIKey:        "installation-key",
		TokenSignKey:  "sign-key",
		TokenIssuer:   "notesafe",
		TokenDuration: time.Hour,
	}, logger.NewLogger("test"))
}

func TestIssueTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.IssueToken(context.Background(), models.TokenRequest{
		APIKey:   "installation-key",
		ClientID: "client-a",
	})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token.SignedString == "" {
		t.Fatal("empty signed token")
	}

	parsed, err := svc.ValidateToken(context.Background(), token.SignedString)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if parsed.ClientID != "client-a" {
		t.Errorf("ClientID = %q, want %q (token subject)", parsed.ClientID, "client-a")
	}
}

func TestIssueTokenRejectsWrongAPIKey(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.IssueToken(context.Background(), models.TokenRequest{
		APIKey:   "guessed-key",
		ClientID: "client-a",
	})
	if !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("err = %v, want ErrInvalidAPIKey", err)
	}
}

func TestIssueTokenRequiresClientID(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.IssueToken(context.Background(), models.TokenRequest{APIKey: "installation-key"})
	if !errors.Is(err, ErrInvalidDataProvided) {
		t.Errorf("err = %v, want ErrInvalidDataProvided", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestAuthService()
	other := NewAuthService(config.ServerAuth{
		APIKey:        "installation-key",
		TokenSignKey:  "different-sign-key",
		TokenIssuer:   "notesafe",
		TokenDuration: time.Hour,
	}, logger.NewLogger("test"))

	token, err := other.IssueToken(context.Background(), models.TokenRequest{
		APIKey:   "installation-key",
		ClientID: "client-a",
	})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err = svc.ValidateToken(context.Background(), token.SignedString); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken for a foreign signature", err)
	}
}
