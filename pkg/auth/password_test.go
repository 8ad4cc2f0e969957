package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword("s3cret-pass", hash) {
		t.Fatalf("expected password check to pass")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected password check to fail")
	}
}

func TestCheckPasswordMalformedDigest(t *testing.T) {
	if CheckPassword("anything", "not-a-bcrypt-digest") {
		t.Fatalf("expected malformed digest to fail check")
	}
}
