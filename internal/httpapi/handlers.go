package httpapi

import (
	"context"
	"net/http"

	"bdf-gateway/internal/auth"

	"github.com/gin-gonic/gin"
)

// TokenIssuer is what the authorize endpoint needs from auth.Authorizer.
type TokenIssuer interface {
	Authorize(ctx context.Context, clientID, clientSecret string) (auth.TokenResponse, error)
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse input, call internal services, return JSON.
type Handlers struct {
	Auth TokenIssuer
}

type authorizeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Authorize exchanges client credentials for a bearer token. Not gated.
func (h Handlers) Authorize(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req authorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	resp, err := h.Auth.Authorize(c.Request.Context(), req.ClientID, req.ClientSecret)
	if err != nil {
		auth.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type whoAmIResponse struct {
	ClientID string `json:"client_id"`
	Org      string `json:"org"`
	IssuedAt int64  `json:"iat"`
	Expires  int64  `json:"exp"`
}

// WhoAmI echoes the verified claims of the caller. Mount behind Gate.RequireToken.
func (h Handlers) WhoAmI(c *gin.Context) {
	claims, err := auth.ClaimsFromGin(c)
	if err != nil {
		auth.WriteError(c, auth.ErrInvalidToken)
		return
	}
	c.JSON(http.StatusOK, whoAmIResponse{
		ClientID: claims.ClientID,
		Org:      claims.Org,
		IssuedAt: claims.IssuedAtUnix(),
		Expires:  claims.ExpiresAtUnix(),
	})
}
