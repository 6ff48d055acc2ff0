package session

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", "reverb", time.Hour)

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := m.UserID(token)
	if err != nil {
		t.Fatalf("UserID error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", "reverb", time.Hour)

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.UserID(token + "x"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestRejectsWrongKey(t *testing.T) {
	issuer := NewManager("secret-a", "reverb", time.Hour)
	verifier := NewManager("secret-b", "reverb", time.Hour)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.UserID(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", "reverb", -time.Minute)

	token, err := m.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.UserID(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestRejectsEmptyToken(t *testing.T) {
	m := NewManager("test-secret", "reverb", time.Hour)

	if _, err := m.UserID(""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
