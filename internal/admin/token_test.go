package admin

import (
	"errors"
	"testing"
	"time"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.nowFunc = func() time.Time { return testNow }

	tok, expires, err := issuer.Issue("session-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expires.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("expiry = %v", expires)
	}
	sid, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sid != "session-1" {
		t.Fatalf("sid = %q", sid)
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.nowFunc = func() time.Time { return testNow }
	tok, _, err := issuer.Issue("session-1")
	if err != nil {
		t.Fatal(err)
	}

	other := NewTokenIssuer("other-secret", time.Hour)
	other.nowFunc = issuer.nowFunc
	if _, err := other.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	issuer.nowFunc = func() time.Time { return testNow.Add(2 * time.Hour) }
	if _, err := issuer.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := issuer.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
