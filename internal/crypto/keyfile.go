package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LoadOrCreateKeyFile returns the raw 32-byte data key stored at path. On
// first run (file absent) a fresh key is generated from the OS CSPRNG and
// written with 0600 permissions before being returned.
func LoadOrCreateKeyFile(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) < KeySize {
			return nil, fmt.Errorf("%w: key file %s holds %d bytes", ErrInvalidKey, path, len(key))
		}
		return key[:KeySize], nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key = make([]byte, KeySize)
	if _, err = io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create key dir: %w", err)
		}
	}
	if err = os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}

	return key, nil
}

// WriteKeyFile persists the key of ctx at path with 0600 permissions. Used
// after key rotation to replace the previous key file.
func WriteKeyFile(path string, ctx *Context) error {
	key := ctx.Key()
	if key == nil {
		return fmt.Errorf("%w: context closed", ErrInvalidKey)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}
