package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Generate(42, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id")
	}
}

func TestTokenIDsUnique(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	t1, err := m.Generate(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	t2, err := m.Generate(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	c1, _ := m.Verify(t1)
	c2, _ := m.Verify(t2)
	if c1.ID == c2.ID {
		t.Fatal("token ids should be unique per issue")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Generate(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Generate(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	for _, tok := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}
