package audit

import "time"

// Event is an immutable, append-only record of an authentication outcome.
//
// Invariants:
// - Events are never updated or deleted.
// - Reason is internal only; it is never rendered to API clients.
// - ip capture is best-effort; audit failures never block a login or a protected request.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	// ClientID is the presented (login) or verified (success) client identifier. May be empty.
	ClientID string `json:"client_id,omitempty" db:"client_id"`
	Org      string `json:"org,omitempty" db:"org"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	Reason string `json:"reason,omitempty" db:"reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLoginSucceeded EventType = "login_succeeded"
	EventTypeLoginRejected  EventType = "login_rejected"
	EventTypeTokenRejected  EventType = "token_rejected"
)
