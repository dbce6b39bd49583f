package hashing

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Use the cheapest cost in tests, bcrypt is deliberately slow otherwise.
func newTestHasher() *Hasher { return NewHasher(bcrypt.MinCost) }

func TestHash_SaltedPerCall(t *testing.T) {
	t.Parallel()
	h := newTestHasher()

	h1, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ, both were %q", h1)
	}
	if !h.Verify("secret1", h1) || !h.Verify("secret1", h2) {
		t.Fatalf("both hashes must verify against the original password")
	}
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()
	h := newTestHasher()

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if h.Verify("wrong", hash) {
		t.Fatalf("wrong password must not verify")
	}
	if h.Verify("secret1", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must not verify")
	}
}

func TestNewHasher_CostFallback(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{-1, 0, 99} {
		h := NewHasher(cost)
		if h.cost != DefaultCost {
			t.Fatalf("cost %d: got %d, want fallback %d", cost, h.cost, DefaultCost)
		}
	}

	if h := NewHasher(bcrypt.MinCost); h.cost != bcrypt.MinCost {
		t.Fatalf("valid cost must be kept, got %d", h.cost)
	}
}
