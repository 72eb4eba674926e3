package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "secret123" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := CheckPassword(hash, "secret123"); err != nil {
		t.Fatalf("expected matching password, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if a == b {
		t.Fatalf("two hashes of the same password should differ (salt)")
	}
}
