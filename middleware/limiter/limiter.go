package limiter

import (
	"fmt"

	"golang.org/x/time/rate"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/middleware"
)

// ErrRateLimitExceeded indicates rate limit has been exceeded
var ErrRateLimitExceeded = fmt.Errorf("%w: rate limit exceeded", rerrors.ErrRateLimited)

// RateLimiter admits queries through a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
	wait    bool
}

// NewRateLimiter allows perSecond queries on average with bursts of up to
// burst. Queries over the limit are rejected with ErrRateLimitExceeded.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// NewWaitingRateLimiter is like NewRateLimiter but blocks until a token is
// available or the query's context is done.
func NewWaitingRateLimiter(perSecond float64, burst int) *RateLimiter {
	rl := NewRateLimiter(perSecond, burst)
	rl.wait = true
	return rl
}

// Name returns the middleware name
func (m *RateLimiter) Name() string {
	return "RateLimiter"
}

// Execute checks rate limit
func (m *RateLimiter) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.wait {
		if err := m.limiter.Wait(ctx.Context()); err != nil {
			return fmt.Errorf("%w: %w", ErrRateLimitExceeded, err)
		}
		return next(ctx)
	}
	if !m.limiter.Allow() {
		return ErrRateLimitExceeded
	}
	return next(ctx)
}

// Tokens reports the tokens currently available.
func (m *RateLimiter) Tokens() float64 {
	return m.limiter.Tokens()
}
