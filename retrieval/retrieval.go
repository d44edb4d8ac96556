// Package retrieval defines the knowledge-base lookup port used on the
// research route, and a vector-store implementation of it.
package retrieval

import (
	"context"
	"fmt"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
)

// ErrUnavailable signals that no context could be found for a query.
var ErrUnavailable = fmt.Errorf("%w: retrieval returned no context", rerrors.ErrProviderUnavailable)

// Retriever returns knowledge-base context for a query, or ErrUnavailable.
type Retriever interface {
	Lookup(ctx context.Context, query string) (string, error)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, query string) (string, error)

// Lookup calls f.
func (f RetrieverFunc) Lookup(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}
