package store

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrEmptyID is returned by Put for a template without an id.
var ErrEmptyID = errors.New("store: empty template id")

// MemStore is an in-memory implementation of Storer.
type MemStore struct {
	mu       sync.RWMutex
	versions map[string][]*Template // oldest first
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{versions: make(map[string][]*Template)}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

func (s *MemStore) Put(t *Template) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(t)
	// Deep copy to avoid mutation issues
	cp := *t
	if prev := s.versions[t.ID]; len(prev) > 0 {
		cur := prev[len(prev)-1]
		cp.Version = cur.Version + 1
		cp.CreatedAt = cur.CreatedAt
	} else {
		cp.Version = 1
	}
	t.Version, t.CreatedAt = cp.Version, cp.CreatedAt
	s.versions[t.ID] = append(s.versions[t.ID], &cp)
	return nil
}

func (s *MemStore) Get(id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := s.versions[id]
	if len(vs) == 0 {
		return nil, nil
	}
	cp := *vs[len(vs)-1]
	return &cp, nil
}

func (s *MemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.versions, id)
	return nil
}

func (s *MemStore) All() ([]*Template, error) {
	return s.list(func(*Template) bool { return true }), nil
}

func (s *MemStore) ListByProvenance(provenance string) ([]*Template, error) {
	return s.list(func(t *Template) bool { return t.Provenance == provenance }), nil
}

func (s *MemStore) list(keep func(*Template) bool) []*Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Template
	for _, vs := range s.versions {
		cur := vs[len(vs)-1]
		if keep(cur) {
			cp := *cur
			out = append(out, &cp)
		}
	}
	sortTemplates(out)
	return out
}

func (s *MemStore) History(id string) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := s.versions[id]
	out := make([]*Template, 0, len(vs))
	for i := len(vs) - 1; i >= 0; i-- {
		cp := *vs[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions), nil
}

// stamp fills missing timestamps with the current time.
func stamp(t *Template) {
	if t.UpdatedAt == 0 {
		t.UpdatedAt = time.Now().UnixMilli()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = t.UpdatedAt
	}
}

// sortTemplates orders by creation time, then id, as SQLiteStore.All does.
func sortTemplates(ts []*Template) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].CreatedAt != ts[j].CreatedAt {
			return ts[i].CreatedAt < ts[j].CreatedAt
		}
		return ts[i].ID < ts[j].ID
	})
}

// Compile-time interface check
var _ Storer = (*MemStore)(nil)
