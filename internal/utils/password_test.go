package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Small parameters keep the tests fast; production uses the defaults.
var testParams = Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1}

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(testParams)
	encoded, err := h.Hash("longpass1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	if !h.Verify(encoded, "longpass1") {
		t.Fatal("expected password to verify")
	}
	if h.Verify(encoded, "longpass2") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHasherSaltsEachHash(t *testing.T) {
	h := NewHasher(testParams)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatal("expected distinct hashes for the same input")
	}
}

func TestHasherVerifiesWithEmbeddedParams(t *testing.T) {
	encoded, err := NewHasher(testParams).Hash("token")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	// A hasher configured differently must still verify old hashes.
	if !NewHasher(Argon2Params{MemoryKiB: 2048, Iterations: 2, Parallelism: 2}).Verify(encoded, "token") {
		t.Fatal("expected verification with embedded params")
	}
}

func TestHasherAcceptsLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("oldpass12"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	h := NewHasher(testParams)
	if !h.Verify(string(legacy), "oldpass12") {
		t.Fatal("expected bcrypt hash to verify")
	}
	if h.Verify(string(legacy), "nope") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHasherRejectsMalformed(t *testing.T) {
	h := NewHasher(testParams)
	for _, encoded := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
	} {
		if h.Verify(encoded, "x") {
			t.Fatalf("expected %q to be rejected", encoded)
		}
	}
}
