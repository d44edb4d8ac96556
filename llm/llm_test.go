package llm

import (
	"context"
	"errors"
	"testing"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/message"
)

func TestRequestMessages(t *testing.T) {
	req := &Request{SystemPrompt: "sys", UserPrompt: "user"}
	msgs := req.Messages()
	if len(msgs) != 2 || msgs[0].Role != message.RoleSystem || msgs[1].Text() != "user" {
		t.Fatalf("unexpected messages: %#v", msgs)
	}

	msgs = (&Request{UserPrompt: "only"}).Messages()
	if len(msgs) != 1 || msgs[0].Role != message.RoleUser {
		t.Fatalf("expected a single user message, got %#v", msgs)
	}
}

func TestText(t *testing.T) {
	ctx := context.Background()

	ok := ClientFunc(func(context.Context, *Request) (*Response, error) {
		return &Response{Text: "  hi  "}, nil
	})
	got, err := Text(ctx, ok, &Request{})
	if err != nil || got != "hi" {
		t.Fatalf("Text = %q, %v", got, err)
	}

	failing := ClientFunc(func(context.Context, *Request) (*Response, error) {
		return nil, errors.New("network down")
	})
	if _, err := Text(ctx, failing, &Request{}); !errors.Is(err, rerrors.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}

	blank := ClientFunc(func(context.Context, *Request) (*Response, error) {
		return &Response{Text: "   "}, nil
	})
	if _, err := Text(ctx, blank, &Request{}); !errors.Is(err, rerrors.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}

	if _, err := Text(ctx, nil, &Request{}); !errors.Is(err, rerrors.ErrGeneration) {
		t.Fatalf("expected ErrGeneration for nil client, got %v", err)
	}
}
