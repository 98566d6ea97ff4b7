package crypto

import "errors"

// Sentinel errors returned by the cipher service. Callers match them with
// [errors.Is]; none of them ever accompanies partial plaintext.
var (
	// ErrKeyDerivation is returned when the password hash cannot produce a
	// usable key, e.g. the salt is shorter than the minimum or the derived
	// output is shorter than the key size.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrInvalidKey is returned when a raw key of fewer than 32 bytes is
	// supplied to LoadContext, or when an operation is attempted on a
	// context whose key has already been destroyed.
	ErrInvalidKey = errors.New("invalid encryption key")

	// ErrAuthenticationFailed is returned when an encrypted blob is shorter
	// than the nonce, the AEAD tag does not verify, or the active key does
	// not match the one used at encryption time. It deliberately does not
	// distinguish tampering from a wrong key.
	ErrAuthenticationFailed = errors.New("payload authentication failed")

	// ErrEncoding is returned by the string helpers when the input is not
	// valid base64 or the decrypted bytes are not valid UTF-8.
	ErrEncoding = errors.New("payload encoding invalid")
)
