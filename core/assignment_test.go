package core

import (
	"testing"
)

func TestAssignment_DocumentRoundTrip(t *testing.T) {
	a := Assignment{
		Title:    "Essay 1",
		TaskType: "essay",
		Status:   StatusUploaded,
		Extra:    map[string]any{"wordCount": 1200.0},
	}
	doc := a.Fields()
	doc[FieldID] = "id-1"
	doc[FieldCreatedAt] = Now()

	back := AssignmentFromDocument(doc)
	if back.ID != "id-1" || back.Title != "Essay 1" || back.TaskType != "essay" {
		t.Fatalf("fixed fields lost: %+v", back)
	}
	if back.Status != StatusUploaded {
		t.Fatalf("status lost: %q", back.Status)
	}
	if back.CreatedAt.IsZero() {
		t.Fatal("createdAt lost")
	}
	if back.Extra["wordCount"] != 1200.0 {
		t.Fatalf("extra field lost: %v", back.Extra)
	}
}

func TestAssignment_FieldsOmitsStoreOwnedKeys(t *testing.T) {
	a := Assignment{ID: "should-not-appear", Title: "x"}
	doc := a.Fields()
	if _, ok := doc[FieldID]; ok {
		t.Fatal("Fields leaked id")
	}
	if _, ok := doc[FieldCreatedAt]; ok {
		t.Fatal("Fields leaked createdAt")
	}
}

func TestAnalysis_DocumentRoundTrip(t *testing.T) {
	an := Analysis{
		AssignmentID: "a-9",
		Extra: map[string]any{
			"aiScore":     72.0,
			"explanation": "repetitive structure",
			"findings":    []any{"generic phrasing"},
		},
	}
	doc := an.Fields()
	doc[FieldID] = "an-1"
	doc[FieldCreatedAt] = Now()

	back := AnalysisFromDocument(doc)
	if back.AssignmentID != "a-9" {
		t.Fatalf("assignmentId lost: %+v", back)
	}
	if back.Extra["aiScore"] != 72.0 {
		t.Fatalf("payload lost: %v", back.Extra)
	}
	if len(back.Extra["findings"].([]any)) != 1 {
		t.Fatalf("array payload lost: %v", back.Extra)
	}
}
