package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/sweetpotato0/ai-reasoner/contrib/provider/claude"
	"github.com/sweetpotato0/ai-reasoner/contrib/provider/openai"
	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		check   func(t *testing.T, c any)
	}{
		{
			name: "openai default",
			cfg:  Config{APIKey: "k"},
			check: func(t *testing.T, c any) {
				p, ok := c.(*openai.Provider)
				if !ok || p.Model() != openai.DefaultModel {
					t.Fatalf("expected default openai provider, got %#v", c)
				}
			},
		},
		{
			name: "claude with model",
			cfg:  Config{Name: "Claude", APIKey: "k", Model: "claude-3-5-haiku-latest"},
			check: func(t *testing.T, c any) {
				p, ok := c.(*claude.Provider)
				if !ok || p.Model() != "claude-3-5-haiku-latest" {
					t.Fatalf("expected claude provider, got %#v", c)
				}
			},
		},
		{name: "missing key", cfg: Config{Name: OpenAI}, wantErr: true},
		{name: "unknown", cfg: Config{Name: "cohere", APIKey: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(ctx, tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, rerrors.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			tt.check(t, c)
		})
	}
}
