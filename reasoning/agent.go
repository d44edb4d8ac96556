// Package reasoning answers free-form queries: it classifies the query, records
// a one-step execution plan, dispatches to a direct or research solver and
// wraps the outcome in an Envelope.
package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/middleware"
	"github.com/sweetpotato0/ai-reasoner/middleware/enricher"
	"github.com/sweetpotato0/ai-reasoner/pkg/telemetry"
)

// Agent is safe for concurrent use; it holds no per-query state.
type Agent struct {
	cfg        *Config
	classifier *Classifier
	direct     Solver
	research   Solver
	chain      *middleware.MiddlewareChain
	logger     *slog.Logger
}

// New creates an agent around client. Retrieval and search are optional and
// only consulted on the research route.
func New(client llm.Client, opts ...Option) (*Agent, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: llm client is required", rerrors.ErrInvalidInput)
	}
	cfg := applyOptions(client, opts)

	a := &Agent{
		cfg:        cfg,
		classifier: NewClassifier(cfg.ClassifierLLM, cfg.Prompts, cfg.CallTimeout, cfg.Logger),
		direct:     cfg.direct,
		research:   cfg.research,
		chain:      middleware.NewChain(cfg.Middlewares...),
		logger:     cfg.Logger,
	}
	if a.direct == nil {
		a.direct = newDirectSolver(cfg)
	}
	if a.research == nil {
		a.research = newResearchSolver(cfg)
	}

	a.logger.Info("reasoning agent initialised",
		"workers", cfg.Pool.Size(),
		"retrieval", cfg.Retriever != nil,
		"web_search", cfg.Searcher != nil,
		"middlewares", a.chain.Len(),
	)
	return a, nil
}

// Classifier exposes the agent's classifier.
func (a *Agent) Classifier() *Classifier {
	return a.classifier
}

// Process answers query. It never returns nil: failures, including panics,
// produce an envelope with Success false.
func (a *Agent) Process(ctx context.Context, query string, opts ...ProcessOption) (env *Envelope) {
	start := time.Now()
	po := applyProcessOptions(opts)

	mctx := middleware.NewContext(ctx, query)
	err := a.run(mctx, func(mc *middleware.Context) error {
		res, err := a.process(mc.Context(), mc.Query, po, start)
		if err != nil {
			return err
		}
		mc.Result = res
		return nil
	})
	if err != nil {
		a.logger.Error("reasoning pipeline failed", "error", err, "query", trimForLog(query, 120))
		return Failure(err, start)
	}
	if res, ok := mctx.Result.(*Envelope); ok && res != nil {
		return res
	}
	return Failure(errors.New("pipeline produced no result"), start)
}

// run executes the middleware chain. A panic anywhere in the chain becomes
// an error.
func (a *Agent) run(mctx *middleware.Context, final middleware.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.chain.Execute(mctx, final)
}

func (a *Agent) process(ctx context.Context, query string, po processOptions, start time.Time) (env *Envelope, err error) {
	ctx, span := telemetry.Start(ctx, "reasoning.process")
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			env = nil
		}
		telemetry.End(span, err)
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", rerrors.ErrInvalidInput)
	}

	c := a.classifier.Classify(ctx, query)
	plan := BuildPlan(query, c, po.maxDepth)
	approach := plan.Approach()
	span.SetAttributes(
		attribute.String("approach", string(approach)),
		attribute.String("domain", string(c.Domain)),
	)
	logAttrs := []any{
		"domain", c.Domain,
		"complexity", c.Complexity,
		"approach", approach,
	}
	if id, ok := enricher.RequestID(ctx); ok {
		span.SetAttributes(attribute.String("request_id", id))
		logAttrs = append(logAttrs, "request_id", id)
	}
	a.logger.Info("query classified", logAttrs...)

	solver := a.direct
	if approach == ApproachResearch {
		solver = a.research
	}
	snapshot := c.Clone()
	sol, err := solver.Solve(ctx, query, &snapshot)
	if err != nil {
		return nil, err
	}

	return Assemble(sol, plan, c, start, po.includeSources)
}
