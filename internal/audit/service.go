package audit

import (
	"context"
	"errors"
	"time"

	"bdf-gateway/pkg/logger"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It is append-only; there are no Update/Delete methods.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records authentication outcomes. Recording is best-effort: the
// Login*/TokenRejected hooks log repository failures and return nothing.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	if e.IPAddress == "" {
		e.IPAddress = ClientIPFromContext(ctx)
	}
	return s.repo.Append(ctx, e)
}

func (s *Service) LoginSucceeded(ctx context.Context, clientID, org string) {
	s.bestEffort(ctx, Event{Type: EventTypeLoginSucceeded, ClientID: clientID, Org: org})
}

func (s *Service) LoginRejected(ctx context.Context, clientID, reason string) {
	s.bestEffort(ctx, Event{Type: EventTypeLoginRejected, ClientID: clientID, Reason: reason})
}

func (s *Service) TokenRejected(ctx context.Context, cause error) {
	e := Event{Type: EventTypeTokenRejected}
	if cause != nil {
		e.Reason = cause.Error()
	}
	s.bestEffort(ctx, e)
}

func (s *Service) bestEffort(ctx context.Context, e Event) {
	if err := s.Append(ctx, e); err != nil {
		logger.From(ctx).Warn("audit append failed", "type", e.Type, "err", err)
	}
}
