package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/awnumar/memguard"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// NonceSize is the AES-GCM nonce length in bytes, prepended to every
	// encrypted blob.
	NonceSize = 12

	// minSaltSize rejects salts too short to be meaningful for Argon2id.
	minSaltSize = 8
)

// Params records how a context's key was derived so the same context can be
// re-derived later from the password. Zero-valued for contexts loaded from a
// raw key file.
type Params struct {
	Salt    []byte
	Time    uint32
	Memory  uint32
	Threads uint8
}

// Context binds a symmetric key to the AEAD cipher built from it. The key
// lives in a memguard locked buffer: it is excluded from swap and core
// dumps, and Close overwrites it with zeros. A Context must not be used
// after Close.
type Context struct {
	key    *memguard.LockedBuffer
	aead   cipher.AEAD
	params Params
}

// newContext moves key into a locked buffer and builds the GCM instance.
// memguard wipes the source slice during the move, so the caller's copy of
// the key material is zeroed as a side effect.
func newContext(key []byte, params Params) (*Context, error) {
	if len(key) < KeySize {
		return nil, ErrInvalidKey
	}

	locked := memguard.NewBufferFromBytes(key[:KeySize])

	block, err := aes.NewCipher(locked.Bytes())
	if err != nil {
		locked.Destroy()
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		locked.Destroy()
		return nil, err
	}

	return &Context{key: locked, aead: aead, params: params}, nil
}

// Params returns the derivation parameters of the context. The returned salt
// is shared, not copied; callers must treat it as read-only.
func (c *Context) Params() Params {
	return c.params
}

// Key exposes the raw key bytes, needed only when persisting the key file.
// The slice aliases locked memory and becomes invalid after Close.
func (c *Context) Key() []byte {
	if c.key == nil || !c.key.IsAlive() {
		return nil
	}
	return c.key.Bytes()
}

// Close scrubs the key material. Safe to call more than once.
func (c *Context) Close() {
	if c.key != nil && c.key.IsAlive() {
		c.key.Destroy()
	}
	c.aead = nil
}

// alive reports whether the context can still encrypt and decrypt.
func (c *Context) alive() bool {
	return c.key != nil && c.key.IsAlive() && c.aead != nil
}
