package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")
	userID := uuid.New()

	token, err := m.Generate(userID, "ana@example.com", "Ana", "user")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "ana@example.com" || claims.Name != "Ana" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 24*time.Hour {
		t.Fatalf("expected ~24h expiry, got %s", ttl)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate(uuid.New(), "a@b.c", "A", "user")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := NewTokenManager("secret-b").Parse(token); err == nil {
		t.Fatalf("expected wrong-secret token to be rejected")
	}
}

func TestParseRejectsMalformedToken(t *testing.T) {
	if _, err := NewTokenManager("s").Parse("not.a.token"); err == nil {
		t.Fatalf("expected malformed token to be rejected")
	}
	if _, err := NewTokenManager("s").Parse(""); err == nil {
		t.Fatalf("expected empty token to be rejected")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret")

	claims := Claims{
		UserID: uuid.New(),
		Email:  "old@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if _, err := m.Parse(expired); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
