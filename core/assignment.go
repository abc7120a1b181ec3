package core

import "time"

// AssignmentStatus is the lifecycle flag of an uploaded assignment.
type AssignmentStatus string

const (
	// StatusUploaded is the initial status of a freshly created assignment.
	StatusUploaded AssignmentStatus = "uploaded"
	// StatusAnalyzed marks an assignment whose analysis results have been
	// merged in.
	StatusAnalyzed AssignmentStatus = "analyzed"
)

// Assignment is the typed view of a record in the assignment collection.
// The store itself only deals in open Documents; this struct exists so
// callers get type safety for the well-known fields while arbitrary extra
// fields survive in Extra.
type Assignment struct {
	ID         string
	Title      string
	TaskType   string
	ContentURL string
	RubricURL  string
	Status     AssignmentStatus
	CreatedAt  time.Time
	// Extra holds caller-supplied fields outside the fixed schema. They are
	// preserved through Document round trips, never rejected.
	Extra map[string]any
}

const (
	fieldTitle      = "title"
	fieldTaskType   = "taskType"
	fieldContentURL = "contentUrl"
	fieldRubricURL  = "rubricUrl"
	fieldStatus     = "status"
)

// Fields returns the mutable fields of a as a Document suitable for
// EntityStore.Create or Update. ID and CreatedAt are omitted; the store owns
// them.
func (a Assignment) Fields() Document {
	doc := make(Document, len(a.Extra)+5)
	for k, v := range a.Extra {
		doc[k] = v
	}
	putNonEmpty(doc, fieldTitle, a.Title)
	putNonEmpty(doc, fieldTaskType, a.TaskType)
	putNonEmpty(doc, fieldContentURL, a.ContentURL)
	putNonEmpty(doc, fieldRubricURL, a.RubricURL)
	putNonEmpty(doc, fieldStatus, string(a.Status))
	return doc
}

// AssignmentFromDocument maps a stored document onto the typed view. Fields
// outside the fixed schema land in Extra.
func AssignmentFromDocument(doc Document) Assignment {
	a := Assignment{
		ID:         doc.ID(),
		Title:      stringField(doc, fieldTitle),
		TaskType:   stringField(doc, fieldTaskType),
		ContentURL: stringField(doc, fieldContentURL),
		RubricURL:  stringField(doc, fieldRubricURL),
		Status:     AssignmentStatus(stringField(doc, fieldStatus)),
		CreatedAt:  doc.CreatedAt(),
	}
	known := map[string]bool{
		FieldID: true, FieldCreatedAt: true,
		fieldTitle: true, fieldTaskType: true,
		fieldContentURL: true, fieldRubricURL: true, fieldStatus: true,
	}
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

func stringField(doc Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func putNonEmpty(doc Document, key, value string) {
	if value != "" {
		doc[key] = value
	}
}
