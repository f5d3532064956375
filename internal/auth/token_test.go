package auth

import (
	"testing"
	"time"
)

func TestMintAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Mint()
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if !issuer.Verify(token) {
		t.Error("freshly minted token should verify")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	other := NewTokenIssuer("other-secret")

	token, _ := other.Mint()
	if issuer.Verify(token) {
		t.Error("token signed with another secret should not verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if issuer.Verify(token) {
			t.Errorf("Verify(%q) = true, want false", token)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	minted := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	issuer.SetNow(func() time.Time { return minted })
	token, err := issuer.Mint()
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	issuer.SetNow(func() time.Time { return minted.Add(TokenTTL - time.Minute) })
	if !issuer.Verify(token) {
		t.Error("token should still be valid just before TTL")
	}

	issuer.SetNow(func() time.Time { return minted.Add(TokenTTL + time.Minute) })
	if issuer.Verify(token) {
		t.Error("token should expire after TTL")
	}
}
