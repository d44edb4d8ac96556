package reasoning

import (
	"log/slog"
	"time"

	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/middleware"
	"github.com/sweetpotato0/ai-reasoner/pkg/logging"
	"github.com/sweetpotato0/ai-reasoner/prompt"
	"github.com/sweetpotato0/ai-reasoner/retrieval"
	"github.com/sweetpotato0/ai-reasoner/runner"
	"github.com/sweetpotato0/ai-reasoner/search"
)

// Defaults applied by New.
const (
	DefaultCallTimeout    = 60 * time.Second
	DefaultLookupTimeout  = 20 * time.Second
	DefaultMaxDepth       = 5
	MaxDepthLimit         = 10
	DefaultIncludeSources = true
)

// Config holds the collaborators and knobs of an Agent.
type Config struct {
	Name string

	LLM           llm.Client // used for every generation call
	ClassifierLLM llm.Client // optional override for classification
	Retriever     retrieval.Retriever
	Searcher      search.Searcher

	Prompts *prompt.Manager
	Pool    *runner.Pool
	Workers int

	CallTimeout   time.Duration // per generation call
	LookupTimeout time.Duration // per research provider call

	Middlewares []middleware.Middleware
	Logger      *slog.Logger

	direct   Solver
	research Solver
}

// Option customises the agent configuration.
type Option func(*Config)

// WithName sets the logical agent name used in logs.
func WithName(name string) Option {
	return func(cfg *Config) {
		if name != "" {
			cfg.Name = name
		}
	}
}

// WithClassifierLLM uses a dedicated client for classification.
func WithClassifierLLM(client llm.Client) Option {
	return func(cfg *Config) { cfg.ClassifierLLM = client }
}

// WithRetriever enables knowledge-base lookups on the research route.
func WithRetriever(r retrieval.Retriever) Option {
	return func(cfg *Config) { cfg.Retriever = r }
}

// WithSearcher enables web search on the research route.
func WithSearcher(s search.Searcher) Option {
	return func(cfg *Config) { cfg.Searcher = s }
}

// WithPrompts replaces the template manager. It must hold every template
// registered by DefaultPrompts.
func WithPrompts(m *prompt.Manager) Option {
	return func(cfg *Config) {
		if m != nil {
			cfg.Prompts = m
		}
	}
}

// WithWorkers sizes the worker pool used for research fan-out.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithPool shares an existing worker pool.
func WithPool(p *runner.Pool) Option {
	return func(cfg *Config) { cfg.Pool = p }
}

// WithCallTimeout bounds each generation call.
func WithCallTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		if d > 0 {
			cfg.CallTimeout = d
		}
	}
}

// WithLookupTimeout bounds each research provider call.
func WithLookupTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		if d > 0 {
			cfg.LookupTimeout = d
		}
	}
}

// WithMiddleware wraps Process with the given middlewares, outermost first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(cfg *Config) { cfg.Middlewares = append(cfg.Middlewares, mws...) }
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithDirectSolver replaces the built-in direct solver.
func WithDirectSolver(s Solver) Option {
	return func(cfg *Config) { cfg.direct = s }
}

// WithResearchSolver replaces the built-in research solver.
func WithResearchSolver(s Solver) Option {
	return func(cfg *Config) { cfg.research = s }
}

func applyOptions(client llm.Client, opts []Option) *Config {
	cfg := &Config{
		Name:          "reasoner",
		LLM:           client,
		CallTimeout:   DefaultCallTimeout,
		LookupTimeout: DefaultLookupTimeout,
		Workers:       runner.DefaultWorkers,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.Prompts == nil {
		cfg.Prompts = DefaultPrompts()
	}
	if cfg.Pool == nil {
		cfg.Pool = runner.NewPool(cfg.Workers)
	}
	if cfg.ClassifierLLM == nil {
		cfg.ClassifierLLM = cfg.LLM
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.WithComponent("reasoning_agent")
	}
	cfg.Logger = cfg.Logger.With("agent", cfg.Name)
	return cfg
}

// processOptions are the per-query knobs.
type processOptions struct {
	maxDepth       int
	includeSources bool
}

// ProcessOption customises a single Process call.
type ProcessOption func(*processOptions)

// WithMaxDepth records the requested depth in the plan context. Values are
// clamped to 1..MaxDepthLimit.
func WithMaxDepth(n int) ProcessOption {
	return func(o *processOptions) {
		switch {
		case n < 1:
			n = 1
		case n > MaxDepthLimit:
			n = MaxDepthLimit
		}
		o.maxDepth = n
	}
}

// WithIncludeSources controls whether sources_used is populated.
func WithIncludeSources(include bool) ProcessOption {
	return func(o *processOptions) { o.includeSources = include }
}

func applyProcessOptions(opts []ProcessOption) processOptions {
	o := processOptions{maxDepth: DefaultMaxDepth, includeSources: DefaultIncludeSources}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
