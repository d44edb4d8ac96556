package middleware

import (
	"context"
)

// Context carries one query through the middleware chain.
type Context struct {
	// Query is the raw user query.
	Query string

	// Result is set by the final handler.
	Result any

	// Error from execution
	Error error

	// Metadata for passing data between middlewares
	Metadata map[string]any

	context context.Context
}

// NewContext creates a new middleware context for query.
func NewContext(ctx context.Context, query string) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Query:    query,
		Metadata: make(map[string]any),
		context:  ctx,
	}
}

// Context returns the underlying context.Context
func (c *Context) Context() context.Context {
	if c.context == nil {
		return context.Background()
	}
	return c.context
}

// SetContext replaces the underlying context.Context, e.g. to attach a deadline.
func (c *Context) SetContext(ctx context.Context) {
	if ctx != nil {
		c.context = ctx
	}
}

// Set stores a metadata value.
func (c *Context) Set(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}

// Get returns a metadata value.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.Metadata[key]
	return v, ok
}

// Middleware intercepts a query on its way to the agent.
type Middleware interface {
	// Name returns the name of the middleware for logging and debugging
	Name() string

	// Execute runs the middleware logic. Returning an error stops the chain.
	Execute(ctx *Context, next Handler) error
}

// Handler is the function called to pass control to the next middleware
type Handler func(*Context) error

// Func adapts a named function to the Middleware interface.
type Func struct {
	name string
	fn   func(ctx *Context, next Handler) error
}

// NewFunc wraps fn as a middleware called name.
func NewFunc(name string, fn func(ctx *Context, next Handler) error) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the middleware name
func (f *Func) Name() string { return f.name }

// Execute calls the wrapped function.
func (f *Func) Execute(ctx *Context, next Handler) error { return f.fn(ctx, next) }

// MiddlewareChain represents a sequence of middleware to be executed
type MiddlewareChain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain
func NewChain(middlewares ...Middleware) *MiddlewareChain {
	return &MiddlewareChain{
		middlewares: middlewares,
	}
}

// Add appends a middleware to the chain
func (c *MiddlewareChain) Add(m Middleware) *MiddlewareChain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Len reports how many middlewares are registered.
func (c *MiddlewareChain) Len() int {
	return len(c.middlewares)
}

// Execute runs all middlewares in the chain and then finalHandler.
func (c *MiddlewareChain) Execute(ctx *Context, finalHandler Handler) error {
	err := c.executeMiddleware(ctx, 0, finalHandler)
	if err != nil && ctx.Error == nil {
		ctx.Error = err
	}
	return err
}

func (c *MiddlewareChain) executeMiddleware(ctx *Context, index int, finalHandler Handler) error {
	if index >= len(c.middlewares) {
		return finalHandler(ctx)
	}

	nextHandler := func(ctx *Context) error {
		return c.executeMiddleware(ctx, index+1, finalHandler)
	}

	return c.middlewares[index].Execute(ctx, nextHandler)
}
