// Package vector defines embedding storage and similarity search used by the
// knowledge-base retriever.
package vector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotFound is returned when an embedding id is unknown.
var ErrNotFound = errors.New("embedding not found")

// DefaultTopK is used when a search asks for a non-positive number of hits.
const DefaultTopK = 10

// Embedding is a stored chunk of text and its vector.
type Embedding struct {
	ID     string
	Vector []float32
	Text   string
	// Source names where Text came from, usually a URL or document path.
	Source string
}

// Match is a search hit with its cosine similarity to the query.
type Match struct {
	Embedding *Embedding
	Score     float32
}

// VectorStore defines the interface for vector storage and similarity search
type VectorStore interface {
	// AddEmbedding inserts or replaces an embedding
	AddEmbedding(ctx context.Context, embedding *Embedding) error

	// Search returns up to topK matches, most similar first
	Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error)

	// DeleteEmbedding removes an embedding by ID
	DeleteEmbedding(ctx context.Context, id string) error

	// GetEmbedding retrieves a specific embedding by ID
	GetEmbedding(ctx context.Context, id string) (*Embedding, error)

	// Clear removes all embeddings
	Clear(ctx context.Context) error

	// Count returns the number of embeddings
	Count(ctx context.Context) (int, error)
}

// Embedder defines the interface for creating embeddings from text
type Embedder interface {
	// Embed converts text to a vector embedding
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts multiple texts to embeddings
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension return number of embedding dimensions
	Dimension() int
}

// Validate checks that an embedding can be stored.
func Validate(embedding *Embedding) error {
	switch {
	case embedding == nil:
		return fmt.Errorf("embedding cannot be nil")
	case embedding.ID == "":
		return fmt.Errorf("embedding ID cannot be empty")
	case len(embedding.Vector) == 0:
		return fmt.Errorf("embedding vector cannot be empty")
	}
	return nil
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Vectors of different length or zero norm score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Normalize scales the vector to unit length (L2 norm).
func Normalize(vec []float32) []float32 {
	if len(vec) == 0 {
		return vec
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

// Rank scores candidates against query by brute force and returns the topK
// best. Candidates whose dimension differs from the query are skipped. Ties
// are broken by ID so results are stable.
func Rank(query []float32, candidates []*Embedding, topK int) []Match {
	if topK <= 0 {
		topK = DefaultTopK
	}

	matches := make([]Match, 0, len(candidates))
	for _, emb := range candidates {
		if emb == nil || len(emb.Vector) != len(query) {
			continue
		}
		matches = append(matches, Match{Embedding: emb, Score: CosineSimilarity(query, emb.Vector)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Embedding.ID < matches[j].Embedding.ID
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
