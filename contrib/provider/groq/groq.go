// Package groq serves Groq's OpenAI-compatible endpoint through the openai provider.
package groq

import (
	"github.com/sweetpotato0/ai-reasoner/contrib/provider/openai"
)

// BaseURL is Groq's OpenAI-compatible API root.
const BaseURL = "https://api.groq.com/openai/v1"

// DefaultModel is used when no model is given.
const DefaultModel = "llama-3.3-70b-versatile"

// DefaultConfig returns an openai provider configuration pointed at Groq.
func DefaultConfig(apiKey string) *openai.Config {
	return &openai.Config{
		APIKey:    apiKey,
		BaseURL:   BaseURL,
		Model:     DefaultModel,
		MaxTokens: 2048,
	}
}

// New creates a Groq-backed provider.
func New(apiKey, model string) *openai.Provider {
	cfg := DefaultConfig(apiKey)
	if model != "" {
		cfg.Model = model
	}
	return openai.New(cfg)
}
