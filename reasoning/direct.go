package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/pkg/telemetry"
	"github.com/sweetpotato0/ai-reasoner/prompt"
)

const (
	frameworkTemperature = 0.3
	frameworkMaxTokens   = 1000
	mathTemperature      = 0.1
	solveTemperature     = 0.2
	solutionMaxTokens    = 3000
)

// directSolver scaffolds a solution with a generated framework and then
// solves the query in one generation call.
type directSolver struct {
	llm     llm.Client
	prompts *prompt.Manager
	timeout time.Duration
	logger  *slog.Logger
}

func newDirectSolver(cfg *Config) *directSolver {
	return &directSolver{
		llm:     cfg.LLM,
		prompts: cfg.Prompts,
		timeout: cfg.CallTimeout,
		logger:  cfg.Logger.With("solver", "direct"),
	}
}

func (s *directSolver) Solve(ctx context.Context, query string, c *Classification) (sol Solution, err error) {
	ctx, span := telemetry.Start(ctx, "reasoning.solve.direct",
		attribute.String("domain", string(c.Domain)),
		attribute.String("complexity", string(c.Complexity)),
	)
	defer func() { telemetry.End(span, err) }()

	framework := s.framework(ctx, c)

	params, err := json.Marshal(c.Parameters)
	if err != nil {
		params = []byte("{}")
	}
	userPrompt, err := s.prompts.Render(PromptSolution, solutionVars{
		typeVars:   newTypeVars(c),
		Query:      query,
		C:          c,
		Parameters: string(params),
		Framework:  framework,
	})
	if err != nil {
		return nil, fmt.Errorf("render solution prompt: %w", err)
	}

	temperature := solveTemperature
	if c.IsMathematical {
		temperature = mathTemperature
	}
	content, err := generate(ctx, s.llm, s.timeout, &llm.Request{
		UserPrompt:  userPrompt,
		Temperature: temperature,
		MaxTokens:   solutionMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("solution generation failed: %w", err)
	}

	answer := ExtractFinalAnswer(content)
	s.logger.Debug("direct solution generated",
		"problem_type", c.ProblemType(),
		"final_answer", trimForLog(answer, 120),
	)
	return &DirectSolution{
		Type:             kindDirect,
		Content:          content,
		FinalAnswer:      answer,
		ProblemType:      c.ProblemType(),
		Complexity:       c.Complexity,
		SolvedDirectly:   true,
		ReasoningType:    c.ReasoningType,
		ReasoningSubtype: c.ReasoningSubtype,
		CodingType:       c.CodingType,
	}, nil
}

// framework asks the model for a solving outline. Any failure is absorbed and
// the generic framework is returned instead.
func (s *directSolver) framework(ctx context.Context, c *Classification) string {
	vars := newTypeVars(c)
	userPrompt, err := s.prompts.Render(PromptFramework, vars)
	if err == nil {
		var text string
		text, err = generate(ctx, s.llm, s.timeout, &llm.Request{
			UserPrompt:  userPrompt,
			Temperature: frameworkTemperature,
			MaxTokens:   frameworkMaxTokens,
		})
		if err == nil {
			return text
		}
	}
	s.logger.Warn("framework generation failed, using generic framework", "error", err)

	generic, rerr := s.prompts.Render(PromptGenericFramework, vars)
	if rerr != nil {
		s.logger.Error("generic framework template failed", "error", rerr)
		return genericFramework(vars)
	}
	return generic
}

var builtinGeneric = mustTemplate(PromptGenericFramework, genericFrameworkTemplate)

func genericFramework(vars typeVars) string {
	out, err := builtinGeneric.Render(vars)
	if err != nil {
		return ""
	}
	return out
}

func mustTemplate(name, content string) *prompt.Template {
	tmpl, err := prompt.NewTemplate(name, content)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// generate runs one completion under its own deadline.
func generate(ctx context.Context, client llm.Client, timeout time.Duration, req *llm.Request) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return llm.Text(ctx, client, req)
}
