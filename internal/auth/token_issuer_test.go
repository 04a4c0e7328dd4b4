package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer(clock func() time.Time) *TokenIssuer {
	return NewTokenIssuer(TokenIssuerConfig{
		Username:      "owner",
		Password:      "correct-horse",
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		Issuer:        "nexum-api",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Clock:         clock,
	})
}

func TestLoginIssuesTokenPair(t *testing.T) {
	issuer := newTestIssuer(nil)

	pair, err := issuer.Login("owner", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %#v", pair)
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("expected 900 second expiry, got %d", pair.ExpiresIn)
	}

	subject, err := issuer.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "owner" {
		t.Fatalf("expected subject owner, got %q", subject)
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	issuer := newTestIssuer(nil)

	if _, err := issuer.Login("owner", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := issuer.Login("intruder", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	issuer := newTestIssuer(nil)

	pair, err := issuer.Login("owner", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access, expiresIn, err := issuer.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expiresIn <= 0 {
		t.Fatalf("expected a positive expiry, got %d", expiresIn)
	}
	subject, err := issuer.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "owner" {
		t.Fatalf("expected subject owner, got %q", subject)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	issuer := newTestIssuer(nil)

	pair, err := issuer.Login("owner", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Tokens are signed with distinct secrets, so the access token must not
	// pass as a refresh token.
	if _, _, err := issuer.Refresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(func() time.Time { return now })

	pair, err := issuer.Login("owner", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(16 * time.Minute)
	if _, err := issuer.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	issuer := newTestIssuer(nil)

	pair, err := issuer.Login("owner", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	if _, err := issuer.ValidateAccessToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
