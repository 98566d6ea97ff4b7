package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_EmitsRoleField(t *testing.T) {
	configureGlobals()

	var buf bytes.Buffer
	l := &Logger{zerolog.New(&buf).With().Str("role", "test-role").Timestamp().Logger()}

	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["role"] != "test-role" {
		t.Fatalf("role = %v, want test-role", entry["role"])
	}
	if entry["message"] != "hello" {
		t.Fatalf("message = %v, want hello", entry["message"])
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	// Must not panic and must not write anywhere.
	l.Error().Msg("dropped")
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatalf("FromContext returned nil")
	}
}

func TestGetChildLogger_InheritsParentFields(t *testing.T) {
	var buf bytes.Buffer
	parent := &Logger{zerolog.New(&buf).With().Str("role", "parent").Logger()}

	child := parent.GetChildLogger()
	child.Info().Msg("from child")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["role"] != "parent" {
		t.Fatalf("child logger lost parent field, role = %v", entry["role"])
	}
}
