package security

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash([]byte("s3cret-pass"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := h.Compare(hash, []byte("s3cret-pass")); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}
	if err := h.Compare(hash, []byte("wrong")); !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Errorf("Compare with wrong password = %v, want mismatch", err)
	}
}

func TestHasher_FreshSaltPerHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	h1, err := h.Hash([]byte("same"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := h.Hash([]byte("same"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password should differ (fresh salt)")
	}
}

func TestNewHasher_CostClamping(t *testing.T) {
	if got := NewHasher(0).Cost; got != bcrypt.DefaultCost {
		t.Errorf("NewHasher(0).Cost = %d, want %d", got, bcrypt.DefaultCost)
	}
	if got := NewHasher(2).Cost; got != bcrypt.MinCost {
		t.Errorf("NewHasher(2).Cost = %d, want %d", got, bcrypt.MinCost)
	}
	if got := NewHasher(99).Cost; got != bcrypt.MaxCost {
		t.Errorf("NewHasher(99).Cost = %d, want %d", got, bcrypt.MaxCost)
	}
}
