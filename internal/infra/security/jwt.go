package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FrancoTaaber/photos-api/internal/infra/config"
)

// ErrInvalidToken indicates the bearer token failed validation.
var ErrInvalidToken = errors.New("invalid access token")

// Claims carries the identity the external provider encoded into the token.
type Claims struct {
	Subject string
	Roles   []string
}

type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager validates bearer tokens issued by the external identity
// provider with a shared HS256 secret. This service never issues tokens.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager constructs a TokenManager from configuration.
func NewTokenManager(cfg config.JWTSettings) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenManager{secret: []byte(cfg.Secret), issuer: cfg.Issuer}, nil
}

// Parse validates the token signature, expiry, and issuer, and returns the
// caller's identity claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	var claims tokenClaims

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, parserOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{Subject: claims.Subject, Roles: claims.Roles}, nil
}
