package reasoning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/pkg/telemetry"
	"github.com/sweetpotato0/ai-reasoner/prompt"
)

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 800
)

// Classifier turns a query into a Classification. The model path is tried
// first; anything it cannot deliver falls back to HeuristicClassify.
type Classifier struct {
	llm     llm.Client
	prompts *prompt.Manager
	timeout time.Duration
	logger  *slog.Logger
}

// NewClassifier creates a classifier. A nil client always uses the heuristic.
func NewClassifier(client llm.Client, prompts *prompt.Manager, timeout time.Duration, logger *slog.Logger) *Classifier {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		llm:     client,
		prompts: prompts,
		timeout: timeout,
		logger:  logger.With("stage", "classifier"),
	}
}

// Classify never fails: Domain and Complexity are always valid in the result.
func (c *Classifier) Classify(ctx context.Context, query string) Classification {
	ctx, span := telemetry.Start(ctx, "reasoning.classify")
	defer span.End()

	out, err := c.classifyWithModel(ctx, query)
	if err != nil {
		c.logger.Warn("classification fell back to heuristics", "error", err, "query", trimForLog(query, 120))
		out = HeuristicClassify(query)
		span.SetAttributes(attribute.Bool("fallback", true))
	}
	span.SetAttributes(
		attribute.String("domain", string(out.Domain)),
		attribute.String("complexity", string(out.Complexity)),
	)
	return out
}

func (c *Classifier) classifyWithModel(ctx context.Context, query string) (Classification, error) {
	if c.llm == nil {
		return Classification{}, fmt.Errorf("classifier model is not configured")
	}
	userPrompt, err := c.prompts.Render(PromptClassify, newClassifyVars(query))
	if err != nil {
		return Classification{}, fmt.Errorf("render classify prompt: %w", err)
	}
	text, err := generate(ctx, c.llm, c.timeout, &llm.Request{
		SystemPrompt: classifySystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  classifyTemperature,
		MaxTokens:    classifyMaxTokens,
		JSONMode:     true,
	})
	if err != nil {
		return Classification{}, err
	}
	out, err := parseClassification(text)
	if err != nil {
		c.logger.Debug("unparsable classification", "raw", trimForLog(text, 400))
		return Classification{}, err
	}
	return out, nil
}
