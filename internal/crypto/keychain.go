// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

// cipherService is the private implementation of [CipherService].
type cipherService struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
}

// NewCipherService constructs a [CipherService] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func NewCipherService() CipherService {
	return &cipherService{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
	}
}

// GenerateSalt implements [CipherService]. It reads 16 random bytes from the
// OS CSPRNG. Returns an error if the random read fails.
func (c *cipherService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveContext implements [CipherService]. It runs Argon2id over password
// and salt and binds the 256-bit output to an AES-GCM cipher. The derived
// key is moved into locked memory and the intermediate copy is wiped.
func (c *cipherService) DeriveContext(password string, salt []byte) (*Context, error) {
	if len(salt) < minSaltSize {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes, got %d", ErrKeyDerivation, minSaltSize, len(salt))
	}

	key := argon2.IDKey([]byte(password), salt, c.argonTime, c.argonMemory, c.argonThreads, KeySize)
	if len(key) < KeySize {
		return nil, fmt.Errorf("%w: derived key shorter than %d bytes", ErrKeyDerivation, KeySize)
	}

	saltCopy := make([]byte, len(salt))
	copy(saltCopy, salt)

	ctx, err := newContext(key, Params{
		Salt:    saltCopy,
		Time:    c.argonTime,
		Memory:  c.argonMemory,
		Threads: c.argonThreads,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyDerivation, err)
	}
	return ctx, nil
}

// LoadContext implements [CipherService]. It binds a previously persisted
// raw key to an AES-GCM cipher. The source slice is wiped during the move
// into locked memory. Returns [ErrInvalidKey] on fewer than 32 bytes.
func (c *cipherService) LoadContext(key []byte) (*Context, error) {
	if len(key) < KeySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	return newContext(key, Params{})
}

// Encrypt implements [CipherService]. The blob layout is
// nonce (12 bytes) ‖ ciphertext+tag, with the nonce read fresh from the OS
// CSPRNG on every call. A cipher-level failure here indicates a programming
// error (destroyed context), not user input.
func (c *cipherService) Encrypt(ctx *Context, plaintext []byte) ([]byte, error) {
	if !ctx.alive() {
		return nil, fmt.Errorf("%w: context closed", ErrInvalidKey)
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends to nonce so the result is already nonce ‖ ciphertext.
	return ctx.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt implements [CipherService]. It splits the nonce off the blob,
// authenticates and opens the ciphertext. Any failure surfaces as
// [ErrAuthenticationFailed]; no partial plaintext is ever returned.
func (c *cipherService) Decrypt(ctx *Context, blob []byte) ([]byte, error) {
	if !ctx.alive() {
		return nil, fmt.Errorf("%w: context closed", ErrInvalidKey)
	}
	if len(blob) < NonceSize {
		return nil, fmt.Errorf("%w: blob shorter than nonce", ErrAuthenticationFailed)
	}

	nonce, ciphertext := blob[:NonceSize], blob[NonceSize:]

	plaintext, err := ctx.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Wrong key and tampered ciphertext are indistinguishable here.
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}

// EncryptString implements [CipherService].
func (c *cipherService) EncryptString(ctx *Context, text string) (string, error) {
	blob, err := c.Encrypt(ctx, []byte(text))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptString implements [CipherService].
func (c *cipherService) DecryptString(ctx *Context, encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %w", ErrEncoding, err)
	}

	plaintext, err := c.Decrypt(ctx, blob)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: decrypted bytes are not valid UTF-8", ErrEncoding)
	}
	return string(plaintext), nil
}
