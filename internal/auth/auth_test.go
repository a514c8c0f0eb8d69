package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("expected hash, got plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()
	token, expires, err := m.GenerateToken(id)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected future expiry, got %v", expires)
	}
	got, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTManager("secret-a", time.Hour).GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTManager("secret-b", time.Hour).ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure with wrong secret")
	}
}

func TestJWT_RejectsExpired(t *testing.T) {
	token, _, err := NewJWTManager("secret", -time.Minute).GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTManager("secret", -time.Minute).ValidateToken(token); err == nil {
		t.Fatalf("expected expired token to fail validation")
	}
}
