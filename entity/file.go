package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/veriscribe/veriscribe/core"
)

// Collection file names, fixed per kind. The persisted layout is one JSON
// array of records per collection.
var collectionFiles = map[core.Kind]string{
	core.KindAssignment: "assignments.json",
	core.KindAnalysis:   "analyses.json",
}

// FileStore is the durable in-process EntityStore backend. Every mutating
// operation deserializes the full collection file, mutates the in-memory
// slice and rewrites the whole file; there are no partial or streamed writes.
// A single mutex serializes access, so operations are safe for concurrent
// use from one process. Serialization or filesystem failures surface as
// *core.StorageFault and leave the store usable for subsequent calls.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates (if needed) the data directory and returns a store
// persisting its collections inside it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &core.StorageFault{Op: "init", Err: err}
	}
	return &FileStore{dir: dir}, nil
}

// Create stores a new record with store-generated id and createdAt.
func (s *FileStore) Create(_ context.Context, kind core.Kind, fields core.Document) (core.Document, error) {
	doc := fields.Clone()
	if doc == nil {
		doc = core.Document{}
	}
	doc[core.FieldID] = core.NewID()
	doc[core.FieldCreatedAt] = core.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load(kind)
	if err != nil {
		return nil, err
	}
	docs = append(docs, doc)
	if err := s.save(kind, docs); err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

// FindAll returns every record of the kind in insertion order.
func (s *FileStore) FindAll(_ context.Context, kind core.Kind) ([]core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(kind)
}

// FindByID returns the record with the given id or core.ErrNotFound.
func (s *FileStore) FindByID(_ context.Context, kind core.Kind, id string) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load(kind)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.ID() == id {
			return doc, nil
		}
	}
	return nil, core.ErrNotFound
}

// Update shallow-merges delta into the stored record or signals
// core.ErrNotFound. The id and createdAt keys of delta are dropped.
func (s *FileStore) Update(_ context.Context, kind core.Kind, id string, delta core.Document) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load(kind)
	if err != nil {
		return nil, err
	}
	for i, doc := range docs {
		if doc.ID() != id {
			continue
		}
		doc.Merge(delta)
		docs[i] = doc
		if err := s.save(kind, docs); err != nil {
			return nil, err
		}
		return doc.Clone(), nil
	}
	return nil, core.ErrNotFound
}

// Delete removes the record if present and reports success either way.
func (s *FileStore) Delete(_ context.Context, kind core.Kind, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load(kind)
	if err != nil {
		return false, err
	}
	kept := docs[:0]
	removed := false
	for _, doc := range docs {
		if doc.ID() == id {
			removed = true
			continue
		}
		kept = append(kept, doc)
	}
	if removed {
		if err := s.save(kind, kept); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Query emulates the hosted backend's filtered read client-side.
func (s *FileStore) Query(_ context.Context, kind core.Kind, q core.Query) ([]core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load(kind)
	if err != nil {
		return nil, err
	}
	return applyQuery(docs, q), nil
}

func (s *FileStore) path(kind core.Kind) (string, error) {
	name, ok := collectionFiles[kind]
	if !ok {
		return "", &core.StorageFault{Op: "resolve", Err: fmt.Errorf("unknown kind %q", kind)}
	}
	return filepath.Join(s.dir, name), nil
}

// load reads and decodes the whole collection. A missing file is an empty
// collection, not an error.
func (s *FileStore) load(kind core.Kind) ([]core.Document, error) {
	path, err := s.path(kind)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []core.Document{}, nil
	}
	if err != nil {
		return nil, &core.StorageFault{Op: "read", Err: err}
	}
	var docs []core.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, &core.StorageFault{Op: "decode", Err: err}
	}
	if docs == nil {
		docs = []core.Document{}
	}
	return docs, nil
}

// save rewrites the whole collection file.
func (s *FileStore) save(kind core.Kind, docs []core.Document) error {
	path, err := s.path(kind)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return &core.StorageFault{Op: "encode", Err: err}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return &core.StorageFault{Op: "write", Err: err}
	}
	return nil
}
