package core

import "context"

// EntityStore provides identical CRUD semantics over the Assignment and
// Analysis collections regardless of the physical backend (in-process file
// store vs. hosted document database). Callers must never branch on which
// backend is active.
//
// Contract:
//   - Create generates id and createdAt server-side; caller-supplied values
//     for those fields are discarded.
//   - FindAll returns every record of the kind in insertion order; an empty
//     collection yields an empty (non-nil) slice, never an error.
//   - FindByID and Update signal a missing id with ErrNotFound.
//   - Update merges the delta shallowly (nested objects replaced wholesale)
//     and never touches id or createdAt. Concurrent updates to the same id
//     are last-write-wins; no optimistic-concurrency token exists.
//   - Delete is a hard delete and idempotent: deleting an absent id still
//     reports success. This asymmetry with Update is deliberate and relied
//     upon by existing callers.
//
// All returned documents are detached copies; mutating them does not affect
// stored state.
type EntityStore interface {
	Create(ctx context.Context, kind Kind, fields Document) (Document, error)
	FindAll(ctx context.Context, kind Kind) ([]Document, error)
	FindByID(ctx context.Context, kind Kind, id string) (Document, error)
	Update(ctx context.Context, kind Kind, id string, delta Document) (Document, error)
	Delete(ctx context.Context, kind Kind, id string) (bool, error)
}

// Query describes the single filtered read shape supported by capable
// backends: equality on one field, ordered by one field descending, with an
// optional result cap.
type Query struct {
	// Field/Equals filter records where Field equals Equals. Empty Field
	// disables filtering.
	Field  string
	Equals any
	// OrderBy sorts results by the named field, descending. Empty keeps
	// insertion order.
	OrderBy string
	// Limit caps the result count; zero means unlimited.
	Limit int
}

// Queryer is the optional query capability. It must be advertised by type
// assertion, never assumed: a backend that cannot serve a query returns
// ErrUnsupportedCapability instead of guessing.
type Queryer interface {
	Query(ctx context.Context, kind Kind, q Query) ([]Document, error)
}
