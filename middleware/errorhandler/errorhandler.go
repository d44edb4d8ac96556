package errorhandler

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/sweetpotato0/ai-reasoner/middleware"
)

// ErrorHandlerFunc handles errors
type ErrorHandlerFunc func(error) error

// ErrorHandler handles errors in the middleware chain
type ErrorHandler struct {
	handler ErrorHandlerFunc
}

// NewErrorHandler creates an error handling middleware
func NewErrorHandler(handler ErrorHandlerFunc) *ErrorHandler {
	return &ErrorHandler{handler: handler}
}

// Name returns the middleware name
func (m *ErrorHandler) Name() string {
	return "ErrorHandler"
}

// Execute handles errors from downstream middlewares
func (m *ErrorHandler) Execute(ctx *middleware.Context, next middleware.Handler) error {
	err := next(ctx)
	if err != nil && m.handler != nil {
		return m.handler(err)
	}
	return err
}

// Recoverer turns a panic further down the chain into an error.
type Recoverer struct {
	logger *slog.Logger
}

// NewRecoverer creates a panic-recovery middleware. A nil logger uses
// slog.Default().
func NewRecoverer(logger *slog.Logger) *Recoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recoverer{logger: logger}
}

// Name returns the middleware name
func (m *Recoverer) Name() string {
	return "Recoverer"
}

// Execute runs next and converts a panic into an error.
func (m *Recoverer) Execute(ctx *middleware.Context, next middleware.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic in query pipeline", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return next(ctx)
}
