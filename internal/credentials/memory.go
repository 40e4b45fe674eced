package credentials

import (
	"context"
	"fmt"
)

// MemoryStore is an immutable in-process credential table.
// It is built once and read concurrently without locking.
type MemoryStore struct {
	records map[string]Record
}

// NewMemoryStore rejects empty or duplicate client ids instead of silently overwriting.
func NewMemoryStore(records ...Record) (*MemoryStore, error) {
	m := make(map[string]Record, len(records))
	for _, r := range records {
		if r.ClientID == "" || r.Org == "" || len(r.SecretHash) == 0 {
			return nil, ErrInvalidSeed
		}
		if _, exists := m[r.ClientID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, r.ClientID)
		}
		m[r.ClientID] = r
	}
	return &MemoryStore{records: m}, nil
}

// NewMemoryStoreFromSeeds hashes each seed with cost and builds the store.
func NewMemoryStoreFromSeeds(cost int, seeds ...Seed) (*MemoryStore, error) {
	records := make([]Record, 0, len(seeds))
	for _, s := range seeds {
		r, err := HashSeed(s, cost)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", s.ClientID, err)
		}
		records = append(records, r)
	}
	return NewMemoryStore(records...)
}

func (s *MemoryStore) Lookup(_ context.Context, clientID string) (Record, bool, error) {
	r, ok := s.records[clientID]
	return r, ok, nil
}

func (s *MemoryStore) Len() int { return len(s.records) }
