package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// phcB64 is the unpadded base64 variant mandated by the PHC string format.
var phcB64 = base64.RawStdEncoding

// HashPassword implements [CipherService]. The output follows the PHC string
// format, e.g.
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// so VerifyPassword can recover the algorithm, cost parameters and salt from
// the string itself without any external state.
func (c *cipherService) HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate password salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, c.argonTime, c.argonMemory, c.argonThreads, KeySize)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		c.argonMemory, c.argonTime, c.argonThreads,
		phcB64.EncodeToString(salt),
		phcB64.EncodeToString(digest),
	), nil
}

// VerifyPassword implements [CipherService]. It parses the PHC string,
// re-derives the digest with the embedded parameters and compares in
// constant time. A malformed hash string is reported as an error; a simple
// mismatch returns (false, nil).
func (c *cipherService) VerifyPassword(password, encoded string) (bool, error) {
	salt, digest, memory, time, threads, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(computed, digest) == 1, nil
}

func parsePHC(encoded string) (salt, digest []byte, memory, time uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: not an argon2id hash string", ErrEncoding)
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad version segment: %w", ErrEncoding, err)
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: unsupported argon2 version %d", ErrEncoding, version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad parameter segment: %w", ErrEncoding, err)
	}

	if salt, err = phcB64.DecodeString(parts[4]); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad salt encoding: %w", ErrEncoding, err)
	}
	if digest, err = phcB64.DecodeString(parts[5]); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad digest encoding: %w", ErrEncoding, err)
	}

	return salt, digest, memory, time, threads, nil
}
