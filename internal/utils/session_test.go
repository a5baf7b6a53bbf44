package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", "u1", 10)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if tok.Token == "" {
		t.Fatalf("empty token")
	}
	if !tok.Exp.After(time.Now().UTC()) {
		t.Errorf("expiry %v is not in the future", tok.Exp)
	}
	id, err := ParseSessionToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if id != "u1" {
		t.Errorf("bound identity = %q, want u1", id)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", "u1", 10)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, err := ParseSessionToken("other", tok.Token); err == nil {
		t.Errorf("token signed with a different secret must be rejected")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", "u1", -1)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, err := ParseSessionToken("secret", tok.Token); err == nil {
		t.Errorf("expired token must be rejected")
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseSessionToken("secret", raw); err == nil {
			t.Errorf("ParseSessionToken(%q) accepted garbage", raw)
		}
	}
}
