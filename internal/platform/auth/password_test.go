package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("p")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "p" || digest == "" {
		t.Fatalf("unexpected digest %q", digest)
	}
	if !h.Verify("p", digest) {
		t.Error("Verify with original plaintext should succeed")
	}
	for _, other := range []string{"", "P", "p ", "password"} {
		if h.Verify(other, digest) {
			t.Errorf("Verify(%q) should fail", other)
		}
	}
}

func TestHasher_SaltedDigests(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("two hashes of the same plaintext should differ")
	}
	if !h.Verify("same", a) || !h.Verify("same", b) {
		t.Error("both digests should verify")
	}
}

func TestHasher_MalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	for _, digest := range []string{"", "not-a-hash", "$2a$04$short"} {
		if h.Verify("p", digest) {
			t.Errorf("Verify against %q should be false", digest)
		}
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	if got := NewHasher(0).cost; got != bcrypt.DefaultCost {
		t.Errorf("zero cost = %d, want %d", got, bcrypt.DefaultCost)
	}
	if got := NewHasher(1).cost; got != bcrypt.MinCost {
		t.Errorf("low cost = %d, want %d", got, bcrypt.MinCost)
	}
	if got := NewHasher(99).cost; got != bcrypt.MaxCost {
		t.Errorf("high cost = %d, want %d", got, bcrypt.MaxCost)
	}
}
