package scenario

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps scenarios in memory for tests or lightweight usage.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]Scenario
	// Now is the clock used for timestamps.
	Now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Scenario{}, Now: time.Now}
}

// Save inserts or replaces the scenario.
func (s *MemoryStore) Save(sc Scenario) (Scenario, error) {
	if err := Check(sc); err != nil {
		return Scenario{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now().UTC()
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if prev, ok := s.data[sc.ID]; ok {
		sc.Version = prev.Version + 1
		sc.CreatedAt = prev.CreatedAt
	} else {
		sc.Version = 1
		sc.CreatedAt = now
	}
	sc.UpdatedAt = now
	s.data[sc.ID] = sc
	return sc, nil
}

// Get returns the scenario with the given ID.
func (s *MemoryStore) Get(id string) (Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.data[id]
	if !ok {
		return Scenario{}, ErrNotFound
	}
	return sc, nil
}

// List returns every scenario, most recent first.
func (s *MemoryStore) List() ([]Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]Metadata, 0, len(s.data))
	for _, sc := range s.data {
		res = append(res, MetadataOf(sc))
	}
	SortMetadata(res)
	return res, nil
}

// Delete removes the scenario.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// SortMetadata orders by update time descending, then by name.
func SortMetadata(ms []Metadata) {
	sort.Slice(ms, func(i, j int) bool {
		if !ms[i].UpdatedAt.Equal(ms[j].UpdatedAt) {
			return ms[i].UpdatedAt.After(ms[j].UpdatedAt)
		}
		return ms[i].Name < ms[j].Name
	})
}
