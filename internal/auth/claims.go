package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity window of an access token.
const TokenTTL = 3 * time.Hour

// Claims are the only supported JWT claims shape for this service.
// On the wire: client_id, org, iat, exp (iss/aud only when configured).
type Claims struct {
	ClientID string `json:"client_id"`
	Org      string `json:"org"`
	jwt.RegisteredClaims
}

func newClaims(now time.Time, clientID, org, issuer, audience string) Claims {
	iat := now.Truncate(time.Second)
	return Claims{
		ClientID: clientID,
		Org:      org,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  audienceOrNil(audience),
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(TokenTTL)),
		},
	}
}

// IssuedAtUnix returns iat in seconds since epoch (0 when absent).
func (c Claims) IssuedAtUnix() int64 {
	if c.IssuedAt == nil {
		return 0
	}
	return c.IssuedAt.Unix()
}

// ExpiresAtUnix returns exp in seconds since epoch (0 when absent).
func (c Claims) ExpiresAtUnix() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
