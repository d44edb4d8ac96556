package enricher

import (
	"context"

	"github.com/google/uuid"

	"github.com/sweetpotato0/ai-reasoner/middleware"
)

// RequestIDKey is the metadata key set by NewRequestID.
const RequestIDKey = "request_id"

// EnricherFunc enriches the context
type EnricherFunc func(*middleware.Context) error

// ContextEnricher adds additional data to the middleware context
type ContextEnricher struct {
	enricher EnricherFunc
}

// NewContextEnricher creates a context enriching middleware
func NewContextEnricher(enricher EnricherFunc) *ContextEnricher {
	return &ContextEnricher{enricher: enricher}
}

type requestIDKey struct{}

// NewRequestID tags every query with a random request id unless one is
// already present. The id is stored in the metadata and in the
// context.Context seen by later handlers.
func NewRequestID() *ContextEnricher {
	return NewContextEnricher(func(ctx *middleware.Context) error {
		id, ok := ctx.Get(RequestIDKey)
		if !ok {
			id = uuid.NewString()
			ctx.Set(RequestIDKey, id)
		}
		if s, ok := id.(string); ok {
			ctx.SetContext(WithRequestID(ctx.Context(), s))
		}
		return nil
	})
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached by NewRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// Name returns the middleware name
func (m *ContextEnricher) Name() string {
	return "ContextEnricher"
}

// Execute enriches the context
func (m *ContextEnricher) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.enricher != nil {
		if err := m.enricher(ctx); err != nil {
			return err
		}
	}
	return next(ctx)
}
