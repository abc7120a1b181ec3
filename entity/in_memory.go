package entity

import (
	"context"
	"sync"

	"github.com/veriscribe/veriscribe/core"
)

// InMemoryStore is a volatile EntityStore implementation keeping collections
// in process-local slices. It is safe for concurrent access and best suited
// for tests or ephemeral demo setups. Each returned document is cloned to
// prevent external mutation of internal state.
type InMemoryStore struct {
	mu          sync.RWMutex
	collections map[core.Kind][]core.Document
}

// NewInMemoryStore constructs an empty in-memory entity store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{collections: make(map[core.Kind][]core.Document)}
}

// Create stores a new record with store-generated id and createdAt. Caller
// supplied values for those fields are discarded.
func (s *InMemoryStore) Create(_ context.Context, kind core.Kind, fields core.Document) (core.Document, error) {
	doc := fields.Clone()
	if doc == nil {
		doc = core.Document{}
	}
	doc[core.FieldID] = core.NewID()
	doc[core.FieldCreatedAt] = core.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[kind] = append(s.collections[kind], doc)
	return doc.Clone(), nil
}

// FindAll returns every record of the kind in insertion order. An empty
// collection yields an empty slice, never nil.
func (s *InMemoryStore) FindAll(_ context.Context, kind core.Kind) ([]core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.collections[kind]
	out := make([]core.Document, len(docs))
	for i, doc := range docs {
		out[i] = doc.Clone()
	}
	return out, nil
}

// FindByID returns the record with the given id or core.ErrNotFound.
func (s *InMemoryStore) FindByID(_ context.Context, kind core.Kind, id string) (core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[kind] {
		if doc.ID() == id {
			return doc.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

// Update shallow-merges delta into the existing record, dropping the id and
// createdAt keys from delta. A missing id signals core.ErrNotFound; no upsert.
func (s *InMemoryStore) Update(_ context.Context, kind core.Kind, id string, delta core.Document) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[kind]
	for i, doc := range docs {
		if doc.ID() != id {
			continue
		}
		merged := doc.Clone()
		merged.Merge(delta.Clone())
		docs[i] = merged
		return merged.Clone(), nil
	}
	return nil, core.ErrNotFound
}

// Delete removes the record if present. Deleting an absent id still reports
// success; the operation is idempotent by contract.
func (s *InMemoryStore) Delete(_ context.Context, kind core.Kind, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[kind]
	for i, doc := range docs {
		if doc.ID() == id {
			s.collections[kind] = append(docs[:i:i], docs[i+1:]...)
			break
		}
	}
	return true, nil
}

// Query emulates the hosted backend's filtered read client-side.
func (s *InMemoryStore) Query(_ context.Context, kind core.Kind, q core.Query) ([]core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := applyQuery(s.collections[kind], q)
	out := make([]core.Document, len(matched))
	for i, doc := range matched {
		out[i] = doc.Clone()
	}
	return out, nil
}
