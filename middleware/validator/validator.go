package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/middleware"
)

// DefaultMaxQueryLength bounds queries accepted by NewQueryValidator.
const DefaultMaxQueryLength = 8000

// ValidatorFunc validates input
type ValidatorFunc func(string) error

// InputValidator validates the query before it reaches the agent.
type InputValidator struct {
	validator ValidatorFunc
}

// NewInputValidator creates an input validation middleware
func NewInputValidator(validator ValidatorFunc) *InputValidator {
	return &InputValidator{validator: validator}
}

// NewQueryValidator rejects blank queries and queries longer than maxRunes
// characters (DefaultMaxQueryLength when maxRunes <= 0).
func NewQueryValidator(maxRunes int) *InputValidator {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxQueryLength
	}
	return NewInputValidator(func(q string) error {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("%w: query cannot be empty", rerrors.ErrInvalidInput)
		}
		if n := utf8.RuneCountInString(q); n > maxRunes {
			return fmt.Errorf("%w: query has %d characters, limit is %d", rerrors.ErrInvalidInput, n, maxRunes)
		}
		return nil
	})
}

// Name returns the middleware name
func (m *InputValidator) Name() string {
	return "InputValidator"
}

// Execute validates the input
func (m *InputValidator) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.validator != nil {
		if err := m.validator(ctx.Query); err != nil {
			return err
		}
	}
	return next(ctx)
}
