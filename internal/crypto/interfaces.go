// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

// Package crypto implements the key-derivation and authenticated-encryption
// core of notesafe.
//
// A [Context] binds a 256-bit key (held in a locked, scrubbing buffer) to an
// AES-256-GCM cipher instance. Contexts are obtained either by deriving a key
// from a password with Argon2id ([CipherService.DeriveContext]) or by loading
// a previously persisted raw key ([CipherService.LoadContext]). Every
// encrypted blob is laid out as nonce(12 bytes) ‖ ciphertext+tag, with a
// fresh random nonce per call.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/cipher_service_mock.go -package=mock

// CipherService is the encryption entry point used by the record store and
// the key-rotation pass. Implementations must never return partial plaintext
// on a failed authentication.
type CipherService interface {
	// GenerateSalt returns fresh random bytes suitable as an Argon2id salt.
	GenerateSalt() ([]byte, error)

	// DeriveContext runs Argon2id over password and salt and binds the
	// resulting 256-bit key to a cipher. Returns [ErrKeyDerivation] if the
	// salt is malformed.
	DeriveContext(password string, salt []byte) (*Context, error)

	// LoadContext binds a previously persisted raw key to a cipher. Returns
	// [ErrInvalidKey] if fewer than 32 bytes are supplied.
	LoadContext(key []byte) (*Context, error)

	// Encrypt seals plaintext under ctx with a fresh random nonce and
	// returns nonce ‖ ciphertext+tag.
	Encrypt(ctx *Context, plaintext []byte) ([]byte, error)

	// Decrypt authenticates and opens a blob produced by Encrypt. Returns
	// [ErrAuthenticationFailed] on a short blob, a tag mismatch, or a key
	// that differs from the one used at encryption time.
	Decrypt(ctx *Context, blob []byte) ([]byte, error)

	// EncryptString encrypts a UTF-8 string and wraps the blob in standard
	// base64 for storage in text columns.
	EncryptString(ctx *Context, text string) (string, error)

	// DecryptString reverses EncryptString. Returns [ErrEncoding] on
	// invalid base64 or non-UTF-8 plaintext, [ErrAuthenticationFailed] on a
	// failed tag check.
	DecryptString(ctx *Context, encoded string) (string, error)

	// HashPassword produces a self-describing Argon2id hash string (PHC
	// format) for authentication purposes. Not used for the data key.
	HashPassword(password string) (string, error)

	// VerifyPassword checks password against a hash string produced by
	// HashPassword. The parameters and salt are read from the hash itself.
	VerifyPassword(password, encoded string) (bool, error)
}
