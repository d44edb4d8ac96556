package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/pkg/telemetry"
	"github.com/sweetpotato0/ai-reasoner/preprocess"
	"github.com/sweetpotato0/ai-reasoner/prompt"
	"github.com/sweetpotato0/ai-reasoner/retrieval"
	"github.com/sweetpotato0/ai-reasoner/runner"
	"github.com/sweetpotato0/ai-reasoner/search"
)

const (
	researchTemperature = 0.3
	researchMaxTokens   = 3000
)

const (
	providerRetrieval = "retrieval"
	providerWebSearch = "web_search"
)

// researchSolver gathers context from the optional knowledge providers and
// synthesizes an answer from whatever came back.
type researchSolver struct {
	llm           llm.Client
	prompts       *prompt.Manager
	retriever     retrieval.Retriever
	searcher      search.Searcher
	pool          *runner.Pool
	timeout       time.Duration
	lookupTimeout time.Duration
	logger        *slog.Logger
}

func newResearchSolver(cfg *Config) *researchSolver {
	return &researchSolver{
		llm:           cfg.LLM,
		prompts:       cfg.Prompts,
		retriever:     cfg.Retriever,
		searcher:      cfg.Searcher,
		pool:          cfg.Pool,
		timeout:       cfg.CallTimeout,
		lookupTimeout: cfg.LookupTimeout,
		logger:        cfg.Logger.With("solver", "research"),
	}
}

// evidence is what one provider contributed.
type evidence struct {
	Text    string
	Sources []string
}

func (s *researchSolver) Solve(ctx context.Context, query string, c *Classification) (sol Solution, err error) {
	ctx, span := telemetry.Start(ctx, "reasoning.solve.research", attribute.String("domain", string(c.Domain)))
	defer func() { telemetry.End(span, err) }()

	gathered := s.gather(ctx, query)

	retrieved := gathered[providerRetrieval]
	web := gathered[providerWebSearch]
	userPrompt, err := s.prompts.Render(PromptResearch, researchVars{
		Query:     query,
		Retrieved: retrieved.Text,
		WebSearch: web.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("render research prompt: %w", err)
	}

	content, err := generate(ctx, s.llm, s.timeout, &llm.Request{
		UserPrompt:  userPrompt,
		Temperature: researchTemperature,
		MaxTokens:   researchMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("research synthesis failed: %w", err)
	}

	sources := preprocess.MergeSources([]string{}, web.Sources...)
	sources = preprocess.MergeSources(sources, retrieved.Sources...)

	quality := QualityLimited
	if retrieved.Text != "" || web.Text != "" {
		quality = QualityHigh
	}
	span.SetAttributes(attribute.String("research_quality", string(quality)), attribute.Int("sources", len(sources)))

	return &ResearchSolution{
		Type:            kindResearch,
		Content:         content,
		FinalAnswer:     ExtractFinalAnswer(content),
		SourcesUsed:     len(sources),
		ResearchQuality: quality,
		sources:         sources,
	}, nil
}

// gather queries every configured provider concurrently on the worker pool.
// A provider that fails contributes nothing; the others are unaffected.
func (s *researchSolver) gather(ctx context.Context, query string) map[string]evidence {
	tasks := make([]runner.Task[evidence], 0, 2)
	if s.retriever != nil {
		tasks = append(tasks, runner.Task[evidence]{
			ID:  providerRetrieval,
			Run: func(ctx context.Context) (evidence, error) { return s.lookupRetrieval(ctx, query) },
		})
	}
	if s.searcher != nil {
		tasks = append(tasks, runner.Task[evidence]{
			ID:  providerWebSearch,
			Run: func(ctx context.Context) (evidence, error) { return s.lookupWeb(ctx, query) },
		})
	}

	out := make(map[string]evidence, len(tasks))
	for _, res := range runner.Run(ctx, s.pool, tasks) {
		if res.Error != nil {
			if !errors.Is(res.Error, rerrors.ErrProviderUnavailable) {
				res.Error = fmt.Errorf("%w: %s: %w", rerrors.ErrProviderUnavailable, res.TaskID, res.Error)
			}
			s.logger.Warn("research provider unavailable", "provider", res.TaskID, "error", res.Error)
			continue
		}
		out[res.TaskID] = res.Output
	}
	return out
}

func (s *researchSolver) lookupRetrieval(ctx context.Context, query string) (ev evidence, err error) {
	ctx, cancel := s.lookupContext(ctx)
	defer cancel()
	ctx, span := telemetry.Start(ctx, "reasoning.lookup."+providerRetrieval)
	defer func() { telemetry.End(span, err) }()

	text, err := s.retriever.Lookup(ctx, query)
	if err != nil {
		return evidence{}, err
	}
	summary, sources := preprocess.StripLinks(text)
	if summary == "" {
		return evidence{}, retrieval.ErrUnavailable
	}
	return evidence{Text: summary, Sources: sources}, nil
}

func (s *researchSolver) lookupWeb(ctx context.Context, query string) (ev evidence, err error) {
	ctx, cancel := s.lookupContext(ctx)
	defer cancel()
	ctx, span := telemetry.Start(ctx, "reasoning.lookup."+providerWebSearch)
	defer func() { telemetry.End(span, err) }()

	raw, err := s.searcher.Search(ctx, query)
	if err != nil {
		return evidence{}, err
	}
	summary, sources := preprocess.StripLinks(raw)
	if summary == "" {
		return evidence{}, fmt.Errorf("%w: web search returned no text", rerrors.ErrProviderUnavailable)
	}
	span.SetAttributes(attribute.Int("sources", len(sources)))
	return evidence{Text: summary, Sources: sources}, nil
}

func (s *researchSolver) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.lookupTimeout > 0 {
		return context.WithTimeout(ctx, s.lookupTimeout)
	}
	return context.WithCancel(ctx)
}
