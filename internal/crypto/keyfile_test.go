package crypto

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateKeyFile_FirstRunGeneratesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "data.key")

	key, err := LoadOrCreateKeyFile(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKeyFile error: %v", err)
	}
	if len(key) != KeySize {
		t.Fatalf("key length = %d, want %d", len(key), KeySize)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key file permissions = %o, want 600", perm)
	}
}

func TestLoadOrCreateKeyFile_SecondRunReturnsSameKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.key")

	first, err := LoadOrCreateKeyFile(path)
	if err != nil {
		t.Fatalf("first LoadOrCreateKeyFile error: %v", err)
	}
	// LoadContext wipes its input, so keep an independent copy.
	firstCopy := make([]byte, len(first))
	copy(firstCopy, first)

	second, err := LoadOrCreateKeyFile(path)
	if err != nil {
		t.Fatalf("second LoadOrCreateKeyFile error: %v", err)
	}
	if !bytes.Equal(firstCopy, second) {
		t.Fatalf("key changed between runs")
	}
}

func TestWriteKeyFile_RoundTrip(t *testing.T) {
	svc := NewCipherService()

	key := bytes.Repeat([]byte{0x5c}, KeySize)
	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)

	ctx, err := svc.LoadContext(key)
	if err != nil {
		t.Fatalf("LoadContext error: %v", err)
	}
	defer ctx.Close()

	path := filepath.Join(t.TempDir(), "data.key")
	if err = WriteKeyFile(path, ctx); err != nil {
		t.Fatalf("WriteKeyFile error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key file permissions = %o, want 600", perm)
	}

	loaded, err := LoadOrCreateKeyFile(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKeyFile error: %v", err)
	}
	if !bytes.Equal(loaded, keyCopy) {
		t.Fatalf("loaded key differs from the written one")
	}
}

func TestWriteKeyFile_ClosedContext(t *testing.T) {
	svc := NewCipherService()

	ctx, err := svc.LoadContext(bytes.Repeat([]byte{0x5c}, KeySize))
	if err != nil {
		t.Fatalf("LoadContext error: %v", err)
	}
	ctx.Close()

	path := filepath.Join(t.TempDir(), "data.key")
	if err = WriteKeyFile(path, ctx); err == nil {
		t.Fatalf("expected error writing a closed context's key")
	}
	if _, err = os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("key file must not be created for a closed context")
	}
}

func TestLoadOrCreateKeyFile_ShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.key")
	if err := os.WriteFile(path, []byte("short"), 0o600); err != nil {
		t.Fatalf("write short key file: %v", err)
	}

	if _, err := LoadOrCreateKeyFile(path); err == nil {
		t.Fatalf("expected error for truncated key file")
	}
}
