package audit

import (
	"context"
	"errors"
	"sync"

	id "visaflow/pkg/domain"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.UserID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.UserID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.UserID] = append(s.events[event.UserID], event)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[userID]...), nil
}

// TeeStore appends to a primary store and mirrors every event to extra sinks.
// Reads are served by the primary.
type TeeStore struct {
	primary Store
	mirrors []Sink
}

func NewTeeStore(primary Store, mirrors ...Sink) *TeeStore {
	return &TeeStore{primary: primary, mirrors: mirrors}
}

// Append fails only when the primary fails; mirror errors are returned
// joined after every mirror has been tried.
func (t *TeeStore) Append(ctx context.Context, event Event) error {
	if err := t.primary.Append(ctx, event); err != nil {
		return err
	}
	var errs []error
	for _, m := range t.mirrors {
		if err := m.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *TeeStore) ListByUser(ctx context.Context, userID id.UserID) ([]Event, error) {
	return t.primary.ListByUser(ctx, userID)
}
