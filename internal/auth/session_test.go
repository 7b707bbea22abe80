package auth

import (
	"errors"
	"testing"
	"time"

	"profitbliss-backend-go/internal/store"
)

func TestSessionRoundTrip(t *testing.T) {
	issuer := NewSessionIssuer("secret", time.Hour)

	token, err := issuer.Issue("account-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	accountId, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if accountId != "account-123" {
		t.Errorf("Expected account-123, got %s", accountId)
	}
}

func TestSessionExpired(t *testing.T) {
	issuer := NewSessionIssuer("secret", -time.Minute)

	token, err := issuer.Issue("account-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Validate(token); !errors.Is(err, store.ErrSessionExpired) {
		t.Fatalf("Expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionGarbage(t *testing.T) {
	issuer := NewSessionIssuer("secret", time.Hour)

	if _, err := issuer.Validate("garbage"); !errors.Is(err, store.ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionWrongSecret(t *testing.T) {
	issuer := NewSessionIssuer("secret", time.Hour)
	other := NewSessionIssuer("different", time.Hour)

	token, err := issuer.Issue("account-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, store.ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession with wrong secret, got %v", err)
	}
}

func TestVerifyTokenShape(t *testing.T) {
	token, err := NewVerifyToken()
	if err != nil {
		t.Fatalf("NewVerifyToken failed: %v", err)
	}
	if len(token) != 40 {
		t.Errorf("Expected 40 hex chars, got %d", len(token))
	}

	other, err := NewVerifyToken()
	if err != nil {
		t.Fatalf("NewVerifyToken failed: %v", err)
	}
	if token == other {
		t.Error("Tokens should be unique")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPassword("hunter22", hash) {
		t.Error("Correct password rejected")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("Wrong password accepted")
	}
}
