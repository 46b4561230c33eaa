package routes

import "testing"

func TestVerifyPassword(t *testing.T) {
	hash, err := hashAndSaltPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !verifyPassword(hash, "correct horse battery") {
		t.Error("expected the matching password to verify")
	}
	if verifyPassword(hash, "wrong password") {
		t.Error("expected a wrong password to fail verification")
	}
	if verifyPassword(hash, "") {
		t.Error("expected an empty password to fail verification")
	}
	if verifyPassword("", "correct horse battery") {
		t.Error("expected an empty hash to fail verification")
	}
	if verifyPassword("correct horse battery", "correct horse battery") {
		t.Error("expected a plaintext stored value to fail verification")
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ana@Example.COM", "ana@example.com"},
		{"ana@example.com", "ana@example.com"},
		{"ANA@EXAMPLE.COM", "ana@example.com"},
	}

	for _, tc := range cases {
		if got := normalizeEmail(tc.in); got != tc.want {
			t.Errorf("normalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	// Store and lookup must agree: two casings of the same address normalize
	// to the same key, so the second registration hits the conflict path.
	if normalizeEmail("Ana@Example.COM") != normalizeEmail("ana@EXAMPLE.com") {
		t.Error("expected different casings of one address to normalize identically")
	}
}
