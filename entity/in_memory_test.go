package entity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/veriscribe/veriscribe/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.EntityStore = (*InMemoryStore)(nil)
	_ core.Queryer     = (*InMemoryStore)(nil)
)

func TestInMemoryStore_CreateRoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, core.KindAssignment, core.Document{
		"title": "Essay 1", "taskType": "essay",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID() == "" {
		t.Fatal("missing generated id")
	}
	if created.CreatedAt().IsZero() {
		t.Fatal("missing generated createdAt")
	}

	got, err := store.FindByID(ctx, core.KindAssignment, created.ID())
	if err != nil {
		t.Fatalf("findById: %v", err)
	}
	if got["title"] != "Essay 1" || got["taskType"] != "essay" {
		t.Fatalf("round trip lost fields: %v", got)
	}
}

func TestInMemoryStore_CreateIgnoresCallerIdentity(t *testing.T) {
	store := NewInMemoryStore()
	created, err := store.Create(context.Background(), core.KindAssignment, core.Document{
		core.FieldID: "attacker-chosen", core.FieldCreatedAt: "1999-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID() == "attacker-chosen" {
		t.Fatal("store trusted caller-supplied id")
	}
	if created.CreatedAt().Year() == 1999 {
		t.Fatal("store trusted caller-supplied createdAt")
	}
}

func TestInMemoryStore_IDsPairwiseDistinct(t *testing.T) {
	store := NewInMemoryStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		doc, err := store.Create(context.Background(), core.KindAnalysis, core.Document{"n": i})
		if err != nil {
			t.Fatal(err)
		}
		if seen[doc.ID()] {
			t.Fatalf("duplicate id %q", doc.ID())
		}
		seen[doc.ID()] = true
	}
}

func TestInMemoryStore_UpdateMergeSemantics(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	created, _ := store.Create(ctx, core.KindAssignment, core.Document{"a": 0, "b": 2})

	updated, err := store.Update(ctx, core.KindAssignment, created.ID(), core.Document{
		"a": 1, core.FieldID: "x",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated["a"] != 1 || updated["b"] != 2 {
		t.Fatalf("merge wrong: %v", updated)
	}
	if updated.ID() != created.ID() {
		t.Fatalf("id changed by update: %q", updated.ID())
	}
	if !updated.CreatedAt().Equal(created.CreatedAt()) {
		t.Fatal("createdAt changed by update")
	}
}

func TestInMemoryStore_UpdateMissingSignalsNotFound(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Update(context.Background(), core.KindAssignment, "missing", core.Document{"x": 1})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// update never creates; the collection stays empty
	docs, _ := store.FindAll(context.Background(), core.KindAssignment)
	if len(docs) != 0 {
		t.Fatalf("update upserted: %v", docs)
	}
}

func TestInMemoryStore_DeleteIdempotent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	created, _ := store.Create(ctx, core.KindAssignment, core.Document{"title": "x"})

	for i := 0; i < 2; i++ {
		ok, err := store.Delete(ctx, core.KindAssignment, created.ID())
		if err != nil || !ok {
			t.Fatalf("delete pass %d: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := store.Delete(ctx, core.KindAssignment, "never-existed")
	if err != nil || !ok {
		t.Fatalf("delete of absent id: ok=%v err=%v", ok, err)
	}
}

func TestInMemoryStore_FindAllEmptyIsEmptySlice(t *testing.T) {
	store := NewInMemoryStore()
	docs, err := store.FindAll(context.Background(), core.KindAnalysis)
	if err != nil {
		t.Fatalf("findAll: %v", err)
	}
	if docs == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty, got %v", docs)
	}
}

func TestInMemoryStore_FindAllInsertionOrder(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.Create(ctx, core.KindAssignment, core.Document{"n": float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	docs, _ := store.FindAll(ctx, core.KindAssignment)
	for i, doc := range docs {
		if doc["n"] != float64(i) {
			t.Fatalf("order broken at %d: %v", i, doc)
		}
	}
}

func TestInMemoryStore_ReturnedDocumentsDetached(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	created, _ := store.Create(ctx, core.KindAssignment, core.Document{"title": "original"})

	created["title"] = "mutated"
	got, _ := store.FindByID(ctx, core.KindAssignment, created.ID())
	if got["title"] != "original" {
		t.Fatalf("store state mutated through returned document: %v", got)
	}
}

func TestInMemoryStore_UpdateDeltaDetached(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	created, _ := store.Create(ctx, core.KindAssignment, core.Document{"title": "x"})

	result := map[string]any{"score": 10.0}
	if _, err := store.Update(ctx, core.KindAssignment, created.ID(), core.Document{
		"result": result,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// mutating the caller-held delta after Update must not reach the store
	result["score"] = 99.0
	got, err := store.FindByID(ctx, core.KindAssignment, created.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got["result"].(map[string]any)["score"] != 10.0 {
		t.Fatalf("store state mutated through caller's delta: %v", got["result"])
	}
}

func TestInMemoryStore_QueryEmulation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := store.Create(ctx, core.KindAnalysis, core.Document{
			"assignmentId": "a-1", "aiScore": float64(10 * i),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	_, _ = store.Create(ctx, core.KindAnalysis, core.Document{"assignmentId": "a-2", "aiScore": 99.0})

	docs, err := store.Query(ctx, core.KindAnalysis, core.Query{
		Field: "assignmentId", Equals: "a-1", OrderBy: "aiScore", Limit: 2,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("limit not applied: %d results", len(docs))
	}
	if docs[0]["aiScore"] != 30.0 || docs[1]["aiScore"] != 20.0 {
		t.Fatalf("descending order broken: %v", docs)
	}
}

func TestInMemoryStore_Concurrency(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Create(ctx, core.KindAssignment, core.Document{"n": i}); err != nil {
				t.Errorf("create: %v", err)
			}
			_, _ = store.FindAll(ctx, core.KindAssignment)
		}()
	}
	wg.Wait()
	docs, err := store.FindAll(ctx, core.KindAssignment)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 100 {
		t.Fatalf("expected 100 records, got %d", len(docs))
	}
}
