package inmemory

import (
	"context"
	"errors"
	"testing"

	"github.com/sweetpotato0/ai-reasoner/vector"
)

// TestInMemoryVectorStore tests in-memory vector store
func TestInMemoryVectorStore(t *testing.T) {
	store := NewInMemoryVectorStore()
	ctx := context.Background()

	t.Run("add and retrieve embedding", func(t *testing.T) {
		emb := &vector.Embedding{
			ID:     "emb1",
			Text:   "hello world",
			Source: "notes.md",
			Vector: []float32{0.1, 0.2, 0.3},
		}

		if err := store.AddEmbedding(ctx, emb); err != nil {
			t.Fatalf("AddEmbedding failed: %v", err)
		}

		retrieved, err := store.GetEmbedding(ctx, "emb1")
		if err != nil {
			t.Fatalf("GetEmbedding failed: %v", err)
		}
		if retrieved.Text != emb.Text || retrieved.Source != emb.Source {
			t.Errorf("unexpected embedding %#v", retrieved)
		}
	})

	t.Run("search embeddings", func(t *testing.T) {
		_ = store.Clear(ctx)

		embeddings := []*vector.Embedding{
			{ID: "emb1", Text: "apple", Vector: []float32{1.0, 0.0, 0.0}},
			{ID: "emb2", Text: "banana", Vector: []float32{0.0, 1.0, 0.0}},
			{ID: "emb3", Text: "orange", Vector: []float32{0.6, 0.0, 0.8}},
		}
		for _, emb := range embeddings {
			if err := store.AddEmbedding(ctx, emb); err != nil {
				t.Fatalf("AddEmbedding failed: %v", err)
			}
		}

		results, err := store.Search(ctx, []float32{1.0, 0.0, 0.0}, 2)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		if results[0].Embedding.ID != "emb1" || results[1].Embedding.ID != "emb3" {
			t.Errorf("unexpected order: %s, %s", results[0].Embedding.ID, results[1].Embedding.ID)
		}
		if results[0].Score < 0.99 {
			t.Errorf("expected near-perfect score, got %v", results[0].Score)
		}

		if _, err := store.Search(ctx, nil, 2); err == nil {
			t.Error("expected error for empty query vector")
		}
	})

	t.Run("delete and count", func(t *testing.T) {
		count, _ := store.Count(ctx)
		if count != 3 {
			t.Fatalf("expected 3 embeddings, got %d", count)
		}
		if err := store.DeleteEmbedding(ctx, "emb2"); err != nil {
			t.Fatalf("DeleteEmbedding failed: %v", err)
		}
		if err := store.DeleteEmbedding(ctx, "emb2"); !errors.Is(err, vector.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetEmbedding(ctx, "emb2"); !errors.Is(err, vector.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		count, _ = store.Count(ctx)
		if count != 2 {
			t.Fatalf("expected 2 embeddings, got %d", count)
		}
	})

	t.Run("rejects invalid embeddings", func(t *testing.T) {
		if err := store.AddEmbedding(ctx, &vector.Embedding{ID: "x"}); err == nil {
			t.Fatal("expected error for empty vector")
		}
	})
}
