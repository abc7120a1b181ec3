package core

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the two entity collections managed by an EntityStore.
type Kind string

const (
	// KindAssignment is the collection of uploaded student assignments.
	KindAssignment Kind = "assignment"
	// KindAnalysis is the collection of analysis results produced for
	// assignments.
	KindAnalysis Kind = "analysis"
)

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	return k == KindAssignment || k == KindAnalysis
}

// Reserved document fields. Both are generated by the store at creation time
// and are never overwritten by Merge.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
)

// Document is an open record: a JSON-serializable field bag with two reserved
// keys (id, createdAt). Unknown fields are preserved, never rejected. Values
// should be limited to JSON scalar, array and object types; anything else
// surfaces as a StorageFault when a durable backend serializes the record.
type Document map[string]any

// NewID returns a collision-resistant identifier for a new record.
func NewID() string { return uuid.NewString() }

// Now returns the canonical createdAt representation (RFC 3339, UTC).
func Now() string { return time.Now().UTC().Format(time.RFC3339Nano) }

// ID returns the record identifier, or "" when unset.
func (d Document) ID() string {
	s, _ := d[FieldID].(string)
	return s
}

// CreatedAt parses the record creation timestamp. The zero time is returned
// when the field is missing or malformed.
func (d Document) CreatedAt() time.Time {
	switch v := d[FieldCreatedAt].(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	case time.Time:
		return v
	default:
		return time.Time{}
	}
}

// Merge applies delta onto d field by field. The merge is shallow: nested
// objects are replaced wholesale, not deep-merged. The reserved id and
// createdAt keys are silently dropped from delta.
func (d Document) Merge(delta Document) {
	for k, v := range delta {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		d[k] = v
	}
}

// Clone returns a deep copy of the document so callers can mutate the result
// without affecting store-internal state.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case Document:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
