package auth

import (
	"context"
	"fmt"
	"time"

	"bdf-gateway/internal/credentials"
	"bdf-gateway/pkg/logger"
)

const TokenTypeBearer = "Bearer"

// Reasons recorded internally for a rejected login. Clients never see them.
const (
	ReasonEmptyField     = "empty_field"
	ReasonUnknownClient  = "unknown_client"
	ReasonSecretMismatch = "secret_mismatch"
)

// LoginRecorder receives login outcomes (audit trail). Implementations must not block.
type LoginRecorder interface {
	LoginSucceeded(ctx context.Context, clientID, org string)
	LoginRejected(ctx context.Context, clientID, reason string)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Authorizer exchanges client credentials for an access token.
type Authorizer struct {
	store    credentials.Store
	tokens   *Manager
	guard    credentials.TimingGuard
	recorder LoginRecorder
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

// NewAuthorizer wires a store to the token manager. guard must be built at the
// bcrypt cost of the store's records.
func NewAuthorizer(store credentials.Store, tokens *Manager, guard credentials.TimingGuard, recorder LoginRecorder) *Authorizer {
	return &Authorizer{store: store, tokens: tokens, guard: guard, recorder: recorder, clock: time.Now}
}

// Authorize validates in order: both fields present, client known, secret matches.
// All three failures return ErrInvalidCredentials.
func (a *Authorizer) Authorize(ctx context.Context, clientID, clientSecret string) (TokenResponse, error) {
	log := logger.From(ctx)
	log.Debug("authorization request", "client_id", clientID)

	if clientID == "" || clientSecret == "" {
		return TokenResponse{}, a.reject(ctx, clientID, ReasonEmptyField)
	}

	rec, ok, err := a.store.Lookup(ctx, clientID)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("credential lookup: %w", err)
	}
	if !ok {
		a.guard.Compare(clientSecret)
		return TokenResponse{}, a.reject(ctx, clientID, ReasonUnknownClient)
	}
	if !rec.SecretMatches(clientSecret) {
		return TokenResponse{}, a.reject(ctx, clientID, ReasonSecretMismatch)
	}

	token, _, err := a.tokens.Issue(a.clock(), rec.ClientID, rec.Org)
	if err != nil {
		log.Error("token issuance failed", "client_id", rec.ClientID, "err", err)
		return TokenResponse{}, err
	}

	if a.recorder != nil {
		a.recorder.LoginSucceeded(ctx, rec.ClientID, rec.Org)
	}
	return TokenResponse{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

func (a *Authorizer) reject(ctx context.Context, clientID, reason string) error {
	logger.From(ctx).Debug("authorization rejected", "client_id", clientID, "reason", reason)
	if a.recorder != nil {
		a.recorder.LoginRejected(ctx, clientID, reason)
	}
	return ErrInvalidCredentials
}
