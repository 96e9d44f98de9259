package store

import (
	"bytes"
	"context"
	"sync"

	"visaflow/internal/process/models"
	id "visaflow/pkg/domain"
	"visaflow/pkg/platform/sentinel"
)

// InMemoryStore keeps raw process records keyed by athlete. It serves as the
// local cache in single-node deployments and as the remote store in tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]models.RawRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]models.RawRecord)}
}

func (s *InMemoryStore) Load(_ context.Context, userID id.UserID) (models.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return models.RawRecord{}, sentinel.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (s *InMemoryStore) Save(_ context.Context, userID id.UserID, rec models.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = cloneRecord(rec)
	return nil
}

// Delete drops the record for userID. Missing records are not an error.
func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}

func cloneRecord(rec models.RawRecord) models.RawRecord {
	return models.RawRecord{
		Checklist:  bytes.Clone(rec.Checklist),
		Submission: bytes.Clone(rec.Submission),
		UpdatedAt:  rec.UpdatedAt,
	}
}

// InMemoryProfileStore keeps athlete profiles.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]models.Profile
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[id.UserID]models.Profile)}
}

func (s *InMemoryProfileStore) LoadProfile(_ context.Context, userID id.UserID) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemoryProfileStore) SaveProfile(_ context.Context, userID id.UserID, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = p
	return nil
}
