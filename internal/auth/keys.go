package auth

import (
	"errors"
	"log/slog"
)

// SigningKey is the single symmetric secret used to sign and verify tokens.
// It is immutable after construction and safe for concurrent use.
type SigningKey struct {
	secret []byte
}

var ErrEmptySigningKey = errors.New("JWT_SECRET is required")

func NewSigningKey(secret string) (SigningKey, error) {
	if secret == "" {
		return SigningKey{}, ErrEmptySigningKey
	}
	b := make([]byte, len(secret))
	copy(b, secret)
	return SigningKey{secret: b}, nil
}

func (k SigningKey) bytes() []byte { return k.secret }

// String keeps the secret out of fmt output.
func (k SigningKey) String() string { return "[redacted]" }

// LogValue keeps the secret out of slog output.
func (k SigningKey) LogValue() slog.Value { return slog.StringValue("[redacted]") }
