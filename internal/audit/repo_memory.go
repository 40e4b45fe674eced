package audit

import (
	"context"
	"sync"
)

// MemoryRepo keeps events in process. Used by the memory backend and by tests.
// Events beyond max are dropped oldest-first so a long-running process stays bounded.
type MemoryRepo struct {
	mu     sync.Mutex
	max    int
	events []Event
}

const defaultMemoryMax = 10000

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{max: defaultMemoryMax} }

func (r *MemoryRepo) Append(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.events) >= r.max {
		r.events = append(r.events[:0], r.events[1:]...)
	}
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepo) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
