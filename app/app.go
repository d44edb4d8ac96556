// Package app assembles a reasoning agent and its providers from a
// config.Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"

	"github.com/sweetpotato0/ai-reasoner/config"
	"github.com/sweetpotato0/ai-reasoner/contrib/embedder/openai"
	"github.com/sweetpotato0/ai-reasoner/contrib/provider"
	"github.com/sweetpotato0/ai-reasoner/contrib/vector/inmemory"
	"github.com/sweetpotato0/ai-reasoner/contrib/vector/mongo"
	"github.com/sweetpotato0/ai-reasoner/contrib/vector/pg"
	"github.com/sweetpotato0/ai-reasoner/contrib/vector/redis"
	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/mcp"
	"github.com/sweetpotato0/ai-reasoner/middleware"
	"github.com/sweetpotato0/ai-reasoner/middleware/enricher"
	"github.com/sweetpotato0/ai-reasoner/middleware/errorhandler"
	"github.com/sweetpotato0/ai-reasoner/middleware/limiter"
	"github.com/sweetpotato0/ai-reasoner/middleware/logger"
	"github.com/sweetpotato0/ai-reasoner/middleware/validator"
	"github.com/sweetpotato0/ai-reasoner/pkg/logging"
	"github.com/sweetpotato0/ai-reasoner/pkg/tokenizer"
	"github.com/sweetpotato0/ai-reasoner/reasoning"
	"github.com/sweetpotato0/ai-reasoner/retrieval"
	"github.com/sweetpotato0/ai-reasoner/search"
	"github.com/sweetpotato0/ai-reasoner/vector"
)

// App holds an assembled agent and the resources it owns.
type App struct {
	Config   *config.Config
	Agent    *reasoning.Agent
	LLM      llm.Client
	Searcher search.Searcher
	// Index ingests documents into the knowledge base. Nil when no vector
	// store is configured.
	Index *retrieval.Index

	logger  *slog.Logger
	closers []func(context.Context) error
}

// Option overrides a collaborator that Build would otherwise construct.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	llm      llm.Client
	searcher search.Searcher
	embedder vector.Embedder
	store    vector.VectorStore
}

// WithLogger sets the logger handed to every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLLM replaces the configured provider.
func WithLLM(c llm.Client) Option {
	return func(o *options) { o.llm = c }
}

// WithSearcher replaces the configured web-search backend.
func WithSearcher(s search.Searcher) Option {
	return func(o *options) { o.searcher = s }
}

// WithVectorStore replaces the configured knowledge base.
func WithVectorStore(e vector.Embedder, s vector.VectorStore) Option {
	return func(o *options) {
		o.embedder = e
		o.store = s
	}
}

// Build constructs the agent described by cfg. Resources opened here are
// released by Close, including when Build itself fails.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (app *App, err error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.WithComponent("app")
	}

	app = &App{Config: cfg, logger: o.logger}
	defer func() {
		if err != nil {
			_ = app.Close(context.Background())
			app = nil
		}
	}()

	client := o.llm
	if client == nil {
		if client, err = provider.New(ctx, cfg.LLM()); err != nil {
			return app, fmt.Errorf("app: llm provider: %w", err)
		}
		app.addCloser(client)
	}

	app.LLM = client

	agentOpts := []reasoning.Option{
		reasoning.WithName("ai-reasoner"),
		reasoning.WithLogger(o.logger),
		reasoning.WithWorkers(cfg.Workers),
		reasoning.WithCallTimeout(cfg.CallTimeout),
		reasoning.WithLookupTimeout(cfg.LookupTimeout),
		reasoning.WithMiddleware(app.middlewares()...),
	}

	if pc, ok := cfg.ClassifierLLM(); ok && o.llm == nil {
		classifier, err := provider.New(ctx, pc)
		if err != nil {
			return app, fmt.Errorf("app: classifier provider: %w", err)
		}
		app.addCloser(classifier)
		agentOpts = append(agentOpts, reasoning.WithClassifierLLM(classifier))
	}

	searcher := o.searcher
	if searcher == nil {
		if searcher, err = app.openSearcher(ctx); err != nil {
			return app, err
		}
	}
	if searcher != nil {
		app.Searcher = searcher
		agentOpts = append(agentOpts, reasoning.WithSearcher(searcher))
	}

	embedder, store := o.embedder, o.store
	if store == nil {
		if embedder, store, err = app.openStore(ctx); err != nil {
			return app, err
		}
	}
	if store != nil {
		agentOpts = append(agentOpts, reasoning.WithRetriever(app.retriever(embedder, store)))
		app.Index = retrieval.NewIndex(embedder, store)
	}

	if app.Agent, err = reasoning.New(client, agentOpts...); err != nil {
		return app, err
	}
	app.logger.Info("agent assembled",
		"provider", cfg.Provider,
		"search", cfg.Search,
		"vector_store", cfg.VectorStore,
		"workers", cfg.Workers)
	return app, nil
}

// MCPServer exposes the agent and its searcher as MCP tools.
func (a *App) MCPServer() *mcp.Server {
	return mcp.NewServer(a.Agent, a.Searcher,
		mcp.WithServerLogger(a.logger),
		mcp.WithGeneralLLM(a.LLM))
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) addCloser(v any) {
	switch c := v.(type) {
	case interface{ Close(context.Context) error }:
		a.closers = append(a.closers, c.Close)
	case interface{ Close() error }:
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
	}
}

func (a *App) middlewares() []middleware.Middleware {
	cfg := a.Config
	mws := []middleware.Middleware{
		errorhandler.NewRecoverer(a.logger),
		errorhandler.NewErrorHandler(describeFailure),
		enricher.NewRequestID(),
		logger.NewRequestLogger(a.logger),
		validator.NewQueryValidator(cfg.MaxQueryLength),
	}
	if cfg.RateLimit > 0 {
		mws = append(mws, limiter.NewRateLimiter(cfg.RateLimit, cfg.RateBurst))
	}
	return mws
}

// describeFailure rewrites failures whose cause is a deadline so the
// envelope says the model call timed out rather than echoing the context
// error alone.
func describeFailure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: model call timed out: %w", rerrors.ErrGeneration, err)
	}
	return err
}

func (a *App) openSearcher(ctx context.Context) (search.Searcher, error) {
	cfg := a.Config
	switch cfg.Search {
	case config.SearchOpenAI:
		return search.NewOpenAI(cfg.OpenAIKey, ""), nil
	case config.SearchTavily:
		return search.NewTavily(cfg.TavilyKey, ""), nil
	case config.SearchDuckDuckGo:
		return search.NewDuckDuckGo(), nil
	case config.SearchMCP:
		mcpCfg := mcp.Config{Endpoint: cfg.MCPEndpoint}
		opts := []mcp.Option{mcp.WithClientName("ai-reasoner"), mcp.WithLogger(a.logger)}
		if cfg.MCPEndpoint == "" {
			fields := strings.Fields(cfg.MCPCommand)
			if len(fields) == 0 {
				return nil, errors.New("app: mcp search needs an endpoint or a command")
			}
			mcpCfg.Command = fields[0]
			opts = append(opts, mcp.WithCommandArgs(fields[1:]...))
		}
		client, err := mcp.Connect(ctx, mcpCfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("app: mcp search: %w", err)
		}
		a.addCloser(client)
		return search.NewMCP(client, search.DefaultMCPTool), nil
	default:
		return nil, nil
	}
}

func (a *App) openStore(ctx context.Context) (vector.Embedder, vector.VectorStore, error) {
	cfg := a.Config
	if cfg.VectorStore == config.StoreNone || cfg.VectorStore == "" {
		return nil, nil, nil
	}
	embedder := openai.New(cfg.OpenAIKey, "", openaisdk.EmbeddingModel(cfg.EmbeddingModel), cfg.EmbeddingDimension)

	switch cfg.VectorStore {
	case config.StoreMemory:
		return embedder, inmemory.NewInMemoryVectorStore(), nil
	case config.StorePG:
		pgCfg := pg.DefaultConfig(cfg.PGDSN)
		pgCfg.Dimension = embedder.Dimension()
		store, err := pg.Open(ctx, pgCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("app: pgvector store: %w", err)
		}
		a.addCloser(store)
		return embedder, store, nil
	case config.StoreRedis:
		redisCfg := redis.DefaultConfig(cfg.RedisAddr)
		redisCfg.Password = cfg.RedisPassword
		redisCfg.DB = cfg.RedisDB
		store := redis.New(redisCfg)
		a.addCloser(store)
		if err := store.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("app: redis store: %w", err)
		}
		return embedder, store, nil
	case config.StoreMongo:
		mongoCfg := mongo.DefaultConfig(cfg.MongoURI)
		mongoCfg.Database = cfg.MongoDatabase
		store, err := mongo.Open(ctx, mongoCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("app: mongo store: %w", err)
		}
		a.addCloser(store)
		return embedder, store, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown vector store %q", cfg.VectorStore)
	}
}

func (a *App) retriever(embedder vector.Embedder, store vector.VectorStore) retrieval.Retriever {
	opts := []retrieval.VectorOption{
		retrieval.WithLogger(a.logger),
		retrieval.WithTopK(a.Config.RetrievalTopK),
		retrieval.WithDiversity(float32(a.Config.RetrievalDiversity)),
	}
	if tok, err := tokenizer.New(""); err == nil {
		opts = append(opts, retrieval.WithTokenCounter(tok))
	} else {
		a.logger.Warn("tokenizer unavailable, approximating token counts", "error", err)
	}
	return retrieval.NewVector(embedder, store, opts...)
}
