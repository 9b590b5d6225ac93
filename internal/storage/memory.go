package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"aureservoir/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	networks    map[string]model.NetworkSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.networks = make(map[string]model.NetworkSnapshot)
	return nil
}

func (s *MemoryStore) SaveNetwork(_ context.Context, snapshot model.NetworkSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.networks[snapshot.ID] = copySnapshot(snapshot)
	return nil
}

func (s *MemoryStore) GetNetwork(_ context.Context, id string) (model.NetworkSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.NetworkSnapshot{}, false, errors.New("store is not initialized")
	}
	snapshot, ok := s.networks[id]
	if !ok {
		return model.NetworkSnapshot{}, false, nil
	}
	return copySnapshot(snapshot), true, nil
}

func (s *MemoryStore) ListNetworks(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errors.New("store is not initialized")
	}
	ids := make([]string, 0, len(s.networks))
	for id := range s.networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) DeleteNetwork(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	delete(s.networks, id)
	return nil
}

func copySnapshot(s model.NetworkSnapshot) model.NetworkSnapshot {
	out := s
	out.Reservoir = copyMatrix(s.Reservoir)
	out.Input = copyMatrix(s.Input)
	out.Feedback = copyMatrix(s.Feedback)
	out.Readout = copyMatrix(s.Readout)
	return out
}

func copyMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	copied := make([][]float64, len(m))
	for i, row := range m {
		copied[i] = append([]float64(nil), row...)
	}
	return copied
}
