package auth

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
)

type ctxKey int

const (
	ctxClaims ctxKey = iota
)

// ginClaimsKey is where the gate stores verified claims on the gin context.
const ginClaimsKey = "claims"

// GinClientIDKey is set alongside claims so the request logger can tag lines.
const GinClientIDKey = "client_id"

var errNoClaims = errors.New("claims not in context")

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, claims)
}

func ClaimsFrom(ctx context.Context) (Claims, error) {
	if c, ok := ctx.Value(ctxClaims).(Claims); ok && c.ClientID != "" {
		return c, nil
	}
	return Claims{}, errNoClaims
}

func ClaimsFromGin(c *gin.Context) (Claims, error) {
	if v, ok := c.Get(ginClaimsKey); ok {
		if claims, ok := v.(Claims); ok && claims.ClientID != "" {
			return claims, nil
		}
	}
	return ClaimsFrom(c.Request.Context())
}

func attachClaims(c *gin.Context, claims Claims) {
	c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
	c.Set(ginClaimsKey, claims)
	c.Set(GinClientIDKey, claims.ClientID)
}
