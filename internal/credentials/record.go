package credentials

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Record is one API client allowed to request tokens.
// Invariant: ClientID is unique within a Store.
type Record struct {
	ClientID   string `json:"client_id" db:"client_id"`
	Org        string `json:"org" db:"org"`
	SecretHash []byte `json:"-" db:"secret_hash"`
}

// Seed is the plaintext form of a Record, hashed before it reaches a Store.
type Seed struct {
	ClientID string
	Secret   string
	Org      string
}

// Store is the read-only credential lookup used at login time.
type Store interface {
	Lookup(ctx context.Context, clientID string) (Record, bool, error)
}

var (
	ErrInvalidSeed  = errors.New("credentials: invalid seed")
	ErrDuplicateKey = errors.New("credentials: duplicate client_id")
)

// MaxSecretLen is the longest secret bcrypt fully covers. Longer input would be
// compared on its first MaxSecretLen bytes only.
const MaxSecretLen = 72

// SecretMatches compares secret against the stored bcrypt hash in constant time.
func (r Record) SecretMatches(secret string) bool {
	if len(r.SecretHash) == 0 || len(secret) > MaxSecretLen {
		return false
	}
	return bcrypt.CompareHashAndPassword(r.SecretHash, []byte(secret)) == nil
}

// HashSeed turns a Seed into a Record using the given bcrypt cost.
func HashSeed(s Seed, cost int) (Record, error) {
	if s.ClientID == "" || s.Secret == "" || s.Org == "" || len(s.Secret) > MaxSecretLen {
		return Record{}, ErrInvalidSeed
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Secret), cost)
	if err != nil {
		return Record{}, err
	}
	return Record{ClientID: s.ClientID, Org: s.Org, SecretHash: hash}, nil
}

// TimingGuard stands in for a stored hash when a client_id is unknown so a lookup
// miss costs the same bcrypt work as a wrong secret. Build it at the cost the
// store's records were hashed with.
type TimingGuard struct {
	hash []byte
}

func NewTimingGuard(cost int) (TimingGuard, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("bdf-timing-guard"), cost)
	if err != nil {
		return TimingGuard{}, err
	}
	return TimingGuard{hash: hash}, nil
}

// Compare burns one bcrypt comparison. The result is always a mismatch.
func (g TimingGuard) Compare(secret string) {
	if len(g.hash) == 0 {
		return
	}
	_ = bcrypt.CompareHashAndPassword(g.hash, []byte(secret))
}

// Cost reports the bcrypt cost the guard was built with.
func (g TimingGuard) Cost() int {
	c, _ := bcrypt.Cost(g.hash)
	return c
}
