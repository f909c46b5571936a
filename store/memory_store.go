package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/flow"
	"github.com/mherr/prefect/util"
)

var _ FlowStore = (*MemoryStore)(nil)

// MemoryStore keeps specs in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	specs map[string]*flow.Spec
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{specs: make(map[string]*flow.Spec)}
}

func (m *MemoryStore) Save(_ context.Context, s *flow.Spec) error {
	if s == nil || s.ID == "" {
		return errors.InvalidSpec("spec must have an ID to be stored")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.specs[s.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*flow.Spec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.specs[id]
	if !ok {
		return nil, errors.FlowNotFound(id)
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context) ([]*flow.Spec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := util.Map(util.Values(m.specs), func(s *flow.Spec) *flow.Spec {
		cp := *s
		return &cp
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.specs, id)
	return nil
}
