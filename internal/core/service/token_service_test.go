package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sniperthink/identity-service/internal/core/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})

	for name, issue := range map[string]func(string) (string, error){
		"access":     svc.IssueAccess,
		"refresh":    svc.IssueRefresh,
		"single_use": svc.IssueSingleUse,
	} {
		token, err := issue("alice@example.com")
		if err != nil {
			t.Fatalf("%s: issue failed: %v", name, err)
		}
		subject, err := svc.Decode(token)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}
		if subject != "alice@example.com" {
			t.Fatalf("%s: unexpected subject %q", name, subject)
		}
	}
}

func TestTokenService_Decode_Expired(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Decode(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Decode_WrongSecret(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})
	other := NewTokenService(TokenConfig{Secret: "other-secret"})

	token, err := other.IssueAccess("alice@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.Decode(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Decode_Malformed(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Decode(token); err != domain.ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestTokenService_Decode_MissingSubject(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := noSub.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Decode(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
