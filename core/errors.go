package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by FindByID and Update when no record with the
	// given id exists in the collection. Delete deliberately does NOT return
	// it; see EntityStore.Delete.
	ErrNotFound = errors.New("entity not found")

	// ErrUnsupportedCapability is returned when a store is asked for a
	// feature its backend does not provide (e.g. Query on a backend that
	// cannot filter).
	ErrUnsupportedCapability = errors.New("unsupported store capability")
)

// StorageFault wraps a serialization or persistence failure of a local
// backend. The store remains usable after a StorageFault.
type StorageFault struct {
	Op  string
	Err error
}

func (e *StorageFault) Error() string {
	return fmt.Sprintf("storage fault during %s: %v", e.Op, e.Err)
}

func (e *StorageFault) Unwrap() error { return e.Err }

// BackendUnavailable indicates the hosted document database could not be
// reached or answered with an unexpected status. Callers decide whether to
// retry or surface the failure; the store itself never retries.
type BackendUnavailable struct {
	Op  string
	Err error
}

func (e *BackendUnavailable) Error() string {
	return fmt.Sprintf("entity backend unavailable during %s: %v", e.Op, e.Err)
}

func (e *BackendUnavailable) Unwrap() error { return e.Err }
