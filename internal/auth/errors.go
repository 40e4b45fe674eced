package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Failure kinds surfaced to clients. InvalidToken covers missing header,
// malformed token, bad signature and expiry alike.
var (
	ErrInvalidCredentials = errors.New("wrong credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenCreation      = errors.New("web token creation failed")
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgTokenCreation      = "creation of web token failed"
	msgInternal           = "internal error"
)

// StatusFor maps an error to the HTTP status and client-facing message.
// Unknown errors become a generic 500 so internals never reach the body.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, ErrTokenCreation):
		return http.StatusUnauthorized, msgTokenCreation
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// WriteError aborts the gin chain with {"error": "<message>"}.
// The full error is attached to c.Errors for the request logger.
func WriteError(c *gin.Context, err error) {
	status, msg := StatusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
