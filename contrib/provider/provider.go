// Package provider selects an llm.Client implementation by name.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweetpotato0/ai-reasoner/contrib/provider/claude"
	"github.com/sweetpotato0/ai-reasoner/contrib/provider/gemini"
	"github.com/sweetpotato0/ai-reasoner/contrib/provider/groq"
	"github.com/sweetpotato0/ai-reasoner/contrib/provider/openai"
	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/llm"
)

// Supported provider names.
const (
	OpenAI = "openai"
	Claude = "claude"
	Gemini = "gemini"
	Groq   = "groq"
)

// Config selects and configures a provider.
type Config struct {
	Name    string
	APIKey  string
	Model   string
	BaseURL string
}

// Names lists the provider names New accepts.
func Names() []string {
	return []string{OpenAI, Claude, Gemini, Groq}
}

// New builds the provider named by cfg.Name.
func New(ctx context.Context, cfg Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %s API key is required", rerrors.ErrInvalidInput, cfg.Name)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case OpenAI, "":
		oc := openai.DefaultConfig().WithAPIKey(cfg.APIKey).WithBaseURL(cfg.BaseURL)
		if cfg.Model != "" {
			oc.WithModel(cfg.Model)
		}
		return openai.New(oc), nil
	case Claude, "anthropic":
		cc := claude.DefaultConfig(cfg.APIKey, cfg.BaseURL)
		if cfg.Model != "" {
			cc.Model = cfg.Model
		}
		return claude.New(cc), nil
	case Gemini:
		gc := gemini.DefaultConfig(cfg.APIKey)
		if cfg.Model != "" {
			gc.Model = cfg.Model
		}
		return gemini.New(ctx, gc)
	case Groq:
		return groq.New(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (want one of %s)",
			rerrors.ErrInvalidInput, cfg.Name, strings.Join(Names(), ", "))
	}
}
