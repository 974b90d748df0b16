package security

import "testing"

func TestClaimDigest_Deterministic(t *testing.T) {
	key := []byte("k")
	a := ClaimDigest(key, []string{"m1,acc1", "1700000000", "1700003600", "jti-1"})
	b := ClaimDigest(key, []string{"jti-1", "1700003600", "1700000000", "m1,acc1"})
	if a != b {
		t.Fatalf("digest should be order-independent: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
}

func TestClaimDigest_ValueSensitive(t *testing.T) {
	key := []byte("k")
	a := ClaimDigest(key, []string{"m1,acc1", "1700000000", "1700003600", "jti-1"})
	b := ClaimDigest(key, []string{"m1,acc1", "1700000000", "1700003601", "jti-1"})
	if a == b {
		t.Fatal("digest should change when any claim value changes")
	}
}

func TestClaimDigest_KeySensitive(t *testing.T) {
	vals := []string{"m1,acc1", "1700000000", "1700003600", "jti-1"}
	if ClaimDigest([]byte("k1"), vals) == ClaimDigest([]byte("k2"), vals) {
		t.Fatal("digest should depend on the key")
	}
}

func TestClaimDigest_DoesNotMutateInput(t *testing.T) {
	vals := []string{"z", "a", "m"}
	ClaimDigest([]byte("k"), vals)
	if vals[0] != "z" || vals[1] != "a" || vals[2] != "m" {
		t.Fatalf("input slice mutated: %v", vals)
	}
}
