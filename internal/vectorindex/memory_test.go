package vectorindex

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySearchOrdersByCosine(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	entries := []Entry{
		{ID: 1, Vector: []float32{1, 0, 0}, Tag: "Warli", Price: 100},
		{ID: 2, Vector: []float32{0.7, 0.7, 0}, Tag: "Madhubani", Price: 200},
		{ID: 3, Vector: []float32{0, 0, 1}, Tag: "Pashmina", Price: 300},
	}
	for _, e := range entries {
		if err := idx.Upsert(ctx, e); err != nil {
			t.Fatalf("upsert %d: %v", e.ID, err)
		}
	}

	hits, err := idx.Search(ctx, []float32{1, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != 1 || hits[1].ID != 2 {
		t.Fatalf("expected ids [1 2], got [%d %d]", hits[0].ID, hits[1].ID)
	}
	if hits[0].Tag != "Warli" || hits[0].Price != 100 {
		t.Fatalf("expected payload on hit, got %+v", hits[0])
	}
}

func TestMemoryUpsertReplacesAndDeleteRemoves(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	if err := idx.Upsert(ctx, Entry{ID: 7, Vector: []float32{1, 0}, Price: 100}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := idx.Upsert(ctx, Entry{ID: 7, Vector: []float32{0, 1}, Price: 500}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", idx.Len())
	}

	hits, err := idx.Search(ctx, []float32{0, 1}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if hits[0].Price != 500 {
		t.Fatalf("expected replaced price 500, got %d", hits[0].Price)
	}

	if err := idx.Delete(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if idx.Has(7) {
		t.Fatal("expected entry to be removed")
	}
	// Deleting an absent id is not an error.
	if err := idx.Delete(ctx, 7); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestCosineZeroVector(t *testing.T) {
	if got := cosine([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Fatalf("expected 0 for zero vector, got %f", got)
	}
}

func TestUnconfigured(t *testing.T) {
	var u Unconfigured
	if err := u.Upsert(context.Background(), Entry{ID: 1}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
