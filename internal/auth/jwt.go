package auth

import (
	"errors"
	"fmt"
	"time"

	"bdf-gateway/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Manager issues and verifies HS256 access tokens against one signing key.
// It holds no mutable state and is shared by all requests.
type Manager struct {
	key      SigningKey
	issuer   string
	audience string
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	key, err := NewSigningKey(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &Manager{
		key:      key,
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
	}, nil
}

/* ===================== ISSUE ===================== */

// Issue signs a token for clientID/org valid from now for TokenTTL.
func (m *Manager) Issue(now time.Time, clientID, org string) (string, Claims, error) {
	claims := newClaims(now, clientID, org, m.issuer, m.audience)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.key.bytes())
	if err != nil {
		return "", Claims{}, fmt.Errorf("%w: %w", ErrTokenCreation, err)
	}
	return signed, claims, nil
}

/* ===================== VERIFY ===================== */

// Verify checks signature, algorithm, iat and exp at time now.
// A token is valid while iat <= now <= exp, compared in whole seconds.
// Every failure satisfies errors.Is(err, ErrInvalidToken); the wrapped cause is for logs only.
func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrInvalidToken
	}
	now = now.Truncate(time.Second)

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Non-canonical base64 (e.g. flipped trailing bits) must not verify.
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		// jwt rejects now == exp; one second of leeway makes exp itself the last valid second.
		jwt.WithLeeway(time.Second),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.key.bytes(), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.IssuedAt == nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, errors.New("iat missing"))
	}
	// The leeway above also loosens iat; keep it exact.
	if now.Before(claims.IssuedAt.Time) {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenUsedBeforeIssued)
	}
	if claims.ClientID == "" {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, errors.New("client_id missing"))
	}
	if claims.Org == "" {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, errors.New("org missing"))
	}

	return claims, nil
}
