package logger

import (
	"log/slog"
	"time"

	"github.com/sweetpotato0/ai-reasoner/middleware"
)

// RequestLogger logs each query and how it finished.
type RequestLogger struct {
	logger *slog.Logger
}

// NewRequestLogger creates a request logging middleware. A nil logger uses
// slog.Default().
func NewRequestLogger(logger *slog.Logger) *RequestLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestLogger{logger: logger}
}

// Name returns the middleware name
func (m *RequestLogger) Name() string {
	return "RequestLogger"
}

// Execute logs the request and its outcome.
func (m *RequestLogger) Execute(ctx *middleware.Context, next middleware.Handler) error {
	attrs := []any{"query_length", len(ctx.Query)}
	if id, ok := ctx.Get("request_id"); ok {
		attrs = append(attrs, "request_id", id)
	}
	m.logger.Info("query received", attrs...)

	start := time.Now()
	err := next(ctx)
	attrs = append(attrs, "duration", time.Since(start))
	if err != nil {
		m.logger.Error("query failed", append(attrs, "error", err)...)
		return err
	}
	m.logger.Info("query completed", attrs...)
	return nil
}
