package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sweetpotato0/ai-reasoner/preprocess"
	"github.com/sweetpotato0/ai-reasoner/vector"
)

// Document is a unit of knowledge-base content.
type Document struct {
	ID string
	// Source is reported as the citation for every chunk of the document.
	Source string
	Text   string
}

// IndexOption customises an Index.
type IndexOption func(*Index)

// WithChunking sets the chunk window and overlap, in word tokens.
func WithChunking(size, overlap int) IndexOption {
	return func(ix *Index) {
		ix.chunkSize = size
		ix.overlap = overlap
	}
}

// Index chunks, embeds and stores documents for a Vector retriever.
type Index struct {
	embedder  vector.Embedder
	store     vector.VectorStore
	chunkSize int
	overlap   int
}

// NewIndex builds an ingester over the same embedder and store a Vector reads.
func NewIndex(embedder vector.Embedder, store vector.VectorStore, opts ...IndexOption) *Index {
	ix := &Index{
		embedder:  embedder,
		store:     store,
		chunkSize: defaultChunkTokens,
		overlap:   defaultOverlapTokens,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Add indexes documents and returns the number of chunks stored. Chunk ids
// are "<document id>#<n>".
func (ix *Index) Add(ctx context.Context, docs ...Document) (int, error) {
	var (
		texts []string
		embs  []*vector.Embedding
	)
	for _, doc := range docs {
		if strings.TrimSpace(doc.ID) == "" {
			return 0, errors.New("document ID cannot be empty")
		}
		for i, chunk := range chunkText(preprocess.CleanBasic(doc.Text), ix.chunkSize, ix.overlap) {
			texts = append(texts, chunk)
			embs = append(embs, &vector.Embedding{
				ID:     fmt.Sprintf("%s#%d", doc.ID, i),
				Text:   chunk,
				Source: doc.Source,
			})
		}
	}
	return ix.embedAndStore(ctx, texts, embs)
}

// AddMarkdown splits a markdown document at its headings, chunks each
// section and indexes the result. Short sections are merged forward.
func (ix *Index) AddMarkdown(ctx context.Context, id, source, markdown string) (int, error) {
	if strings.TrimSpace(id) == "" {
		return 0, errors.New("document ID cannot be empty")
	}
	var (
		texts []string
		embs  []*vector.Embedding
	)
	for _, section := range splitMarkdown(markdown) {
		for _, chunk := range chunkText(preprocess.CleanBasic(section), ix.chunkSize, ix.overlap) {
			embs = append(embs, &vector.Embedding{
				ID:     fmt.Sprintf("%s#%d", id, len(texts)),
				Text:   chunk,
				Source: source,
			})
			texts = append(texts, chunk)
		}
	}
	return ix.embedAndStore(ctx, texts, embs)
}

func (ix *Index) embedAndStore(ctx context.Context, texts []string, embs []*vector.Embedding) (int, error) {
	if len(texts) == 0 {
		return 0, nil
	}

	vecs, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vecs) != len(embs) {
		return 0, fmt.Errorf("expected %d embeddings, got %d", len(embs), len(vecs))
	}

	for i, emb := range embs {
		emb.Vector = vecs[i]
		if err := ix.store.AddEmbedding(ctx, emb); err != nil {
			return i, fmt.Errorf("store chunk %s: %w", emb.ID, err)
		}
	}
	return len(embs), nil
}

// AddHTML extracts readable text from an HTML page and indexes it.
func (ix *Index) AddHTML(ctx context.Context, id, source, html string) (int, error) {
	text, err := preprocess.HTMLToText(html)
	if err != nil {
		return 0, fmt.Errorf("extract html: %w", err)
	}
	return ix.Add(ctx, Document{ID: id, Source: source, Text: text})
}
