package crypto

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_SelfDescribingFormat(t *testing.T) {
	svc := NewCipherService()

	encoded, err := svc.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("hash = %q, want $argon2id$v=19$ prefix", encoded)
	}
	if got := strings.Count(encoded, "$"); got != 5 {
		t.Fatalf("hash has %d '$' separators, want 5", got)
	}
}

func TestVerifyPassword(t *testing.T) {
	svc := NewCipherService()

	encoded, err := svc.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := svc.VerifyPassword("hunter2", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Fatalf("correct password rejected")
	}

	ok, err = svc.VerifyPassword("hunter3", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if ok {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerifyPassword_SaltedHashesDiffer(t *testing.T) {
	svc := NewCipherService()

	h1, err := svc.HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := svc.HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical; salt not random")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	svc := NewCipherService()

	for _, encoded := range []string{
		"",
		"plainstring",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	} {
		if _, err := svc.VerifyPassword("pw", encoded); !errors.Is(err, ErrEncoding) {
			t.Fatalf("VerifyPassword(%q): error = %v, want ErrEncoding", encoded, err)
		}
	}
}
