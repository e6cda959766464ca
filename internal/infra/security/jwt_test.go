package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FrancoTaaber/photos-api/internal/infra/config"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager(config.JWTSettings{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestParseValidToken(t *testing.T) {
	manager, err := NewTokenManager(config.JWTSettings{Secret: "secret", Issuer: "photos-idp"})
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	token := signHS256(t, "secret", jwt.MapClaims{
		"sub":   "alice",
		"iss":   "photos-idp",
		"roles": []string{"user", "admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if len(claims.Roles) != 2 || claims.Roles[1] != "admin" {
		t.Fatalf("unexpected roles %v", claims.Roles)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	manager, _ := NewTokenManager(config.JWTSettings{Secret: "secret"})

	token := signHS256(t, "other-secret", jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsMissingSubject(t *testing.T) {
	manager, _ := NewTokenManager(config.JWTSettings{Secret: "secret"})

	token := signHS256(t, "secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsUnexpectedAlgorithm(t *testing.T) {
	manager, _ := NewTokenManager(config.JWTSettings{Secret: "secret"})

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
