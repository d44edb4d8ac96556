package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sweetpotato0/ai-reasoner/pkg/logging"
	"github.com/sweetpotato0/ai-reasoner/vector"
)

// Defaults for Vector.
const (
	DefaultTopK      = 4
	DefaultMinScore  = 0.3
	DefaultMaxTokens = 1500

	diversityPool = 3
)

// TokenCounter measures and trims text in model tokens. *tokenizer.Tokenizer
// satisfies it.
type TokenCounter interface {
	Count(text string) int
	Truncate(text string, limit int) string
}

// VectorOption customises a Vector retriever.
type VectorOption func(*Vector)

// WithTopK sets how many matches are requested from the store.
func WithTopK(k int) VectorOption {
	return func(v *Vector) {
		if k > 0 {
			v.topK = k
		}
	}
}

// WithMinScore drops matches whose cosine similarity is below score.
func WithMinScore(score float32) VectorOption {
	return func(v *Vector) {
		v.minScore = score
	}
}

// WithDiversity reranks a wider candidate pool by maximal marginal relevance
// so near-duplicate chunks do not crowd out the context. lambda is in (0, 1];
// 1 ranks by relevance alone.
func WithDiversity(lambda float32) VectorOption {
	return func(v *Vector) {
		if lambda > 0 && lambda <= 1 {
			v.lambda = lambda
		}
	}
}

// WithMaxTokens caps the size of the returned context block.
func WithMaxTokens(n int) VectorOption {
	return func(v *Vector) {
		if n > 0 {
			v.maxTokens = n
		}
	}
}

// WithTokenCounter replaces the approximate rune-based counter.
func WithTokenCounter(c TokenCounter) VectorOption {
	return func(v *Vector) {
		if c != nil {
			v.tokens = c
		}
	}
}

// WithLogger sets the retriever logger.
func WithLogger(l *slog.Logger) VectorOption {
	return func(v *Vector) {
		if l != nil {
			v.logger = l
		}
	}
}

// Vector answers lookups from a vector store. Each hit is rendered as a
// paragraph; hits with a source carry a markdown citation.
type Vector struct {
	embedder  vector.Embedder
	store     vector.VectorStore
	topK      int
	minScore  float32
	lambda    float32
	maxTokens int
	tokens    TokenCounter
	logger    *slog.Logger
}

var _ Retriever = (*Vector)(nil)

// NewVector builds a vector-store retriever.
func NewVector(embedder vector.Embedder, store vector.VectorStore, opts ...VectorOption) *Vector {
	v := &Vector{
		embedder:  embedder,
		store:     store,
		topK:      DefaultTopK,
		minScore:  DefaultMinScore,
		maxTokens: DefaultMaxTokens,
		tokens:    approxCounter{},
		logger:    logging.WithComponent("retrieval"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Lookup embeds query, searches the store and joins the relevant hits.
// It returns ErrUnavailable when nothing scores above the threshold.
func (v *Vector) Lookup(ctx context.Context, query string) (string, error) {
	if v.embedder == nil || v.store == nil {
		return "", fmt.Errorf("%w: vector retriever is not configured", ErrUnavailable)
	}

	qv, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	fetch := v.topK
	if v.lambda > 0 {
		fetch *= diversityPool
	}
	matches, err := v.store.Search(ctx, qv, fetch)
	if err != nil {
		return "", fmt.Errorf("search vector store: %w", err)
	}
	if v.lambda > 0 {
		matches = diversify(matches, v.lambda, v.topK)
	}

	var (
		blocks []string
		used   int
	)
	for _, m := range matches {
		if m.Embedding == nil || m.Score < v.minScore {
			continue
		}
		block := renderMatch(m.Embedding)
		if block == "" {
			continue
		}

		cost := v.tokens.Count(block)
		if used+cost > v.maxTokens {
			if len(blocks) == 0 {
				if cut := v.truncateMatch(m.Embedding); cut != "" {
					blocks = append(blocks, cut)
				}
			}
			break
		}
		blocks = append(blocks, block)
		used += cost
	}

	v.logger.Debug("vector lookup", "matches", len(matches), "used", len(blocks), "tokens", used)
	if len(blocks) == 0 {
		return "", ErrUnavailable
	}
	return strings.Join(blocks, "\n\n"), nil
}

func renderMatch(e *vector.Embedding) string {
	text := strings.TrimSpace(e.Text)
	if text == "" {
		return ""
	}
	return text + citation(e.Source)
}

func citation(source string) string {
	if source == "" {
		return ""
	}
	return fmt.Sprintf(" ([%s](%s))", source, source)
}

// truncateMatch fits a match into the token budget by cutting its text and
// keeping the citation whole. The citation is dropped only when it alone
// exceeds the budget.
func (v *Vector) truncateMatch(e *vector.Embedding) string {
	text := strings.TrimSpace(e.Text)
	cite := citation(e.Source)
	budget := v.maxTokens - v.tokens.Count(cite)
	if budget <= 0 {
		return strings.TrimSpace(v.tokens.Truncate(text, v.maxTokens))
	}
	cut := strings.TrimSpace(v.tokens.Truncate(text, budget))
	if cut == "" {
		return ""
	}
	return cut + cite
}

// approxCounter assumes four bytes of English text per token.
type approxCounter struct{}

func (approxCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

func (approxCounter) Truncate(text string, limit int) string {
	n := limit * 4
	if n >= len(text) {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
