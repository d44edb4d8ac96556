// Package llm defines the language-generation port consumed by the reasoning
// pipeline. Concrete vendors live under contrib/provider.
package llm

import (
	"context"
	"fmt"
	"strings"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/message"
)

// Request bundles the inputs for a single completion.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int64
	// JSONMode asks the provider to return a single JSON object.
	JSONMode bool
}

// Messages renders the request as chat turns.
func (r *Request) Messages() []*message.Message {
	if r == nil {
		return nil
	}
	msgs := make([]*message.Message, 0, 2)
	if strings.TrimSpace(r.SystemPrompt) != "" {
		msgs = append(msgs, message.NewMessage(message.RoleSystem, r.SystemPrompt))
	}
	msgs = append(msgs, message.NewMessage(message.RoleUser, r.UserPrompt))
	return msgs
}

// Response captures the generated text.
type Response struct {
	Text  string
	Model string
}

// Client is implemented by every language-generation provider.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req *Request) (*Response, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Text runs a completion and returns its trimmed text. Transport failures are
// wrapped with ErrGeneration and blank output with ErrEmptyResponse.
func Text(ctx context.Context, c Client, req *Request) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: client is not configured", rerrors.ErrGeneration)
	}
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", rerrors.ErrGeneration, err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("%w: %w", rerrors.ErrGeneration, rerrors.ErrEmptyResponse)
	}
	return strings.TrimSpace(resp.Text), nil
}
