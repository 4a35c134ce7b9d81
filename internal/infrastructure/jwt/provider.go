package jwtinfra

import (
	"errors"
	"time"

	"github.com/dealer-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// PurposeReset marks tokens that may only authorize a password reset.
const PurposeReset = "reset"

// Claims holds the JWT payload fields. Purpose is empty on ordinary session
// tokens and set on purpose-scoped tokens (password reset).
type Claims struct {
	UserID  string `json:"id"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a single shared secret.
type Provider struct {
	secret []byte
}

// NewProvider builds a Provider from the configured signing secret. The
// secret is injected explicitly; config.Load already refuses the insecure
// development default in production.
func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt: signing secret is empty")
	}
	return &Provider{secret: []byte(cfg.JWTSecret)}, nil
}

// Sign mints a token for userID with the given purpose (empty for session
// tokens) and time-to-live.
func (p *Provider) Sign(userID, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses the token and checks signature and expiry. It fails on any
// non-HMAC signing method.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
