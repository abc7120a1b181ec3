package core

import "time"

// Analysis is the typed view of a record in the analysis collection. The
// AssignmentID back-reference is a lookup-only relation: an Analysis does
// not own its Assignment's lifecycle and deleting the Assignment does not
// cascade here.
type Analysis struct {
	ID           string
	AssignmentID string
	CreatedAt    time.Time
	// Extra carries the analysis payload (scores, explanations, findings);
	// the schema is open by design.
	Extra map[string]any
}

const fieldAssignmentID = "assignmentId"

// Fields returns the mutable fields of a as a Document for store calls.
func (a Analysis) Fields() Document {
	doc := make(Document, len(a.Extra)+1)
	for k, v := range a.Extra {
		doc[k] = v
	}
	putNonEmpty(doc, fieldAssignmentID, a.AssignmentID)
	return doc
}

// AnalysisFromDocument maps a stored document onto the typed view.
func AnalysisFromDocument(doc Document) Analysis {
	a := Analysis{
		ID:           doc.ID(),
		AssignmentID: stringField(doc, fieldAssignmentID),
		CreatedAt:    doc.CreatedAt(),
	}
	known := map[string]bool{FieldID: true, FieldCreatedAt: true, fieldAssignmentID: true}
	for k, v := range doc {
		if known[k] {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		a.Extra[k] = cloneValue(v)
	}
	return a
}
