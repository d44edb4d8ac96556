// Package config loads and validates the reasoner's runtime configuration
// from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sweetpotato0/ai-reasoner/contrib/provider"
)

// Search backends.
const (
	SearchNone       = "none"
	SearchOpenAI     = "openai"
	SearchTavily     = "tavily"
	SearchDuckDuckGo = "duckduckgo"
	SearchMCP        = "mcp"
)

// Vector store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StorePG     = "pg"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// Config is the complete runtime configuration.
type Config struct {
	// LLM
	Provider        string
	Model           string
	ClassifierModel string
	BaseURL         string
	OpenAIKey       string
	AnthropicKey    string
	GeminiKey       string
	GroqKey         string

	// Web search
	Search      string
	TavilyKey   string
	MCPEndpoint string
	MCPCommand  string

	// Knowledge base
	VectorStore        string
	EmbeddingModel     string
	EmbeddingDimension int
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	MongoURI           string
	MongoDatabase      string
	PGDSN              string
	RetrievalTopK      int
	RetrievalDiversity float64

	// Pipeline
	Workers        int
	CallTimeout    time.Duration
	LookupTimeout  time.Duration
	RateLimit      float64
	RateBurst      int
	MaxQueryLength int

	// Serving and tracing
	ListenAddr       string
	Tracing          bool
	TraceSampleRatio float64
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		Provider:           provider.OpenAI,
		Search:             SearchOpenAI,
		VectorStore:        StoreNone,
		EmbeddingDimension: 1536,
		RedisAddr:          "localhost:6379",
		MongoDatabase:      "ai_reasoner",
		RetrievalTopK:      4,
		Workers:            4,
		CallTimeout:        60 * time.Second,
		LookupTimeout:      20 * time.Second,
		RateBurst:          5,
		MaxQueryLength:     8000,
		ListenAddr:         "127.0.0.1:8080",
	}
}

// Load reads the environment over Default and validates the result.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := Default()
	env := envReader{get: getenv, v: NewValidator()}

	cfg.Provider = strings.ToLower(env.str("REASONER_PROVIDER", cfg.Provider))
	cfg.Model = env.str("REASONER_MODEL", cfg.Model)
	cfg.ClassifierModel = env.str("REASONER_CLASSIFIER_MODEL", cfg.ClassifierModel)
	cfg.BaseURL = env.str("REASONER_BASE_URL", cfg.BaseURL)
	cfg.OpenAIKey = env.str("OPENAI_API_KEY", "")
	cfg.AnthropicKey = env.str("ANTHROPIC_API_KEY", "")
	cfg.GeminiKey = env.str("GEMINI_API_KEY", "")
	cfg.GroqKey = env.str("GROQ_API_KEY", "")

	cfg.Search = strings.ToLower(env.str("REASONER_SEARCH", cfg.Search))
	cfg.TavilyKey = env.str("TAVILY_API_KEY", "")
	cfg.MCPEndpoint = env.str("REASONER_MCP_ENDPOINT", "")
	cfg.MCPCommand = env.str("REASONER_MCP_COMMAND", "")

	cfg.VectorStore = strings.ToLower(env.str("REASONER_VECTOR_STORE", cfg.VectorStore))
	cfg.EmbeddingModel = env.str("REASONER_EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.EmbeddingDimension = env.int("REASONER_EMBEDDING_DIM", cfg.EmbeddingDimension)
	cfg.RedisAddr = env.str("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = env.str("REDIS_PASSWORD", "")
	cfg.RedisDB = env.int("REDIS_DB", cfg.RedisDB)
	cfg.MongoURI = env.str("MONGODB_URI", "")
	cfg.MongoDatabase = env.str("MONGODB_DB", cfg.MongoDatabase)
	cfg.PGDSN = env.str("PG_DSN", "")
	cfg.RetrievalTopK = env.int("REASONER_RETRIEVAL_TOP_K", cfg.RetrievalTopK)
	cfg.RetrievalDiversity = env.float("REASONER_RETRIEVAL_DIVERSITY", cfg.RetrievalDiversity)

	cfg.Workers = env.int("REASONER_WORKERS", cfg.Workers)
	cfg.CallTimeout = env.duration("REASONER_CALL_TIMEOUT", cfg.CallTimeout)
	cfg.LookupTimeout = env.duration("REASONER_LOOKUP_TIMEOUT", cfg.LookupTimeout)
	cfg.RateLimit = env.float("REASONER_RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = env.int("REASONER_RATE_BURST", cfg.RateBurst)
	cfg.MaxQueryLength = env.int("REASONER_MAX_QUERY_LENGTH", cfg.MaxQueryLength)

	cfg.ListenAddr = env.str("REASONER_LISTEN_ADDR", cfg.ListenAddr)
	cfg.Tracing = env.bool("REASONER_TRACING", cfg.Tracing)
	cfg.TraceSampleRatio = env.float("REASONER_TRACE_SAMPLE_RATIO", cfg.TraceSampleRatio)

	cfg.validate(env.v)
	if err := env.v.Error(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values and cross-field requirements.
func (c *Config) Validate() error {
	v := NewValidator()
	c.validate(v)
	return v.Error()
}

func (c *Config) validate(v *Validator) {
	v.ValidateOneOf("REASONER_PROVIDER", c.Provider, provider.Names()...)
	v.RequireNonEmpty(c.apiKeyVar(), c.APIKey())

	v.ValidateOneOf("REASONER_SEARCH", c.Search, SearchNone, SearchOpenAI, SearchTavily, SearchDuckDuckGo, SearchMCP)
	switch c.Search {
	case SearchOpenAI:
		v.RequireNonEmpty("OPENAI_API_KEY", c.OpenAIKey)
	case SearchTavily:
		v.RequireNonEmpty("TAVILY_API_KEY", c.TavilyKey)
	case SearchMCP:
		if strings.TrimSpace(c.MCPEndpoint) == "" && strings.TrimSpace(c.MCPCommand) == "" {
			v.AddError("REASONER_MCP_ENDPOINT", "an endpoint or REASONER_MCP_COMMAND is required for mcp search")
		}
	}

	v.ValidateOneOf("REASONER_VECTOR_STORE", c.VectorStore, StoreNone, StoreMemory, StorePG, StoreRedis, StoreMongo)
	if c.VectorStore != StoreNone {
		v.RequireNonEmpty("OPENAI_API_KEY", c.OpenAIKey)
		v.ValidateRange("REASONER_EMBEDDING_DIM", c.EmbeddingDimension, 1, 16000)
		v.ValidateRange("REASONER_RETRIEVAL_TOP_K", c.RetrievalTopK, 1, 50)
		v.ValidateFloatRange("REASONER_RETRIEVAL_DIVERSITY", c.RetrievalDiversity, 0, 1)
	}
	switch c.VectorStore {
	case StorePG:
		v.RequireNonEmpty("PG_DSN", c.PGDSN)
	case StoreRedis:
		v.RequireNonEmpty("REDIS_ADDR", c.RedisAddr)
		v.ValidateDBNumber("REDIS_DB", c.RedisDB)
	case StoreMongo:
		v.RequireNonEmpty("MONGODB_URI", c.MongoURI)
		v.RequireNonEmpty("MONGODB_DB", c.MongoDatabase)
	}

	v.ValidateRange("REASONER_WORKERS", c.Workers, 1, 64)
	v.RequirePositiveDuration("REASONER_CALL_TIMEOUT", c.CallTimeout)
	v.RequirePositiveDuration("REASONER_LOOKUP_TIMEOUT", c.LookupTimeout)
	v.ValidateFloatRange("REASONER_RATE_LIMIT", c.RateLimit, 0, 10000)
	if c.RateLimit > 0 {
		v.RequirePositive("REASONER_RATE_BURST", c.RateBurst)
	}
	v.RequirePositive("REASONER_MAX_QUERY_LENGTH", c.MaxQueryLength)
	v.ValidateFloatRange("REASONER_TRACE_SAMPLE_RATIO", c.TraceSampleRatio, 0, 1)
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case provider.Claude:
		return c.AnthropicKey
	case provider.Gemini:
		return c.GeminiKey
	case provider.Groq:
		return c.GroqKey
	default:
		return c.OpenAIKey
	}
}

func (c *Config) apiKeyVar() string {
	switch c.Provider {
	case provider.Claude:
		return "ANTHROPIC_API_KEY"
	case provider.Gemini:
		return "GEMINI_API_KEY"
	case provider.Groq:
		return "GROQ_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// LLM returns the provider settings for the main model.
func (c *Config) LLM() provider.Config {
	return provider.Config{
		Name:    c.Provider,
		APIKey:  c.APIKey(),
		Model:   c.Model,
		BaseURL: c.BaseURL,
	}
}

// ClassifierLLM returns the provider settings for the classifier, and false
// when the classifier shares the main model.
func (c *Config) ClassifierLLM() (provider.Config, bool) {
	if c.ClassifierModel == "" || c.ClassifierModel == c.Model {
		return provider.Config{}, false
	}
	pc := c.LLM()
	pc.Model = c.ClassifierModel
	return pc, true
}

// envReader reads typed variables and records parse failures.
type envReader struct {
	get func(string) string
	v   *Validator
}

func (e envReader) str(key, def string) string {
	if value := strings.TrimSpace(e.get(key)); value != "" {
		return value
	}
	return def
}

func (e envReader) int(key string, def int) int {
	value := strings.TrimSpace(e.get(key))
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		e.v.AddError(key, fmt.Sprintf("not an integer: %q", value))
		return def
	}
	return n
}

func (e envReader) float(key string, def float64) float64 {
	value := strings.TrimSpace(e.get(key))
	if value == "" {
		return def
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.v.AddError(key, fmt.Sprintf("not a number: %q", value))
		return def
	}
	return f
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(e.get(key))
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.v.AddError(key, fmt.Sprintf("not a duration: %q", value))
		return def
	}
	return d
}

func (e envReader) bool(key string, def bool) bool {
	value := strings.TrimSpace(e.get(key))
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		e.v.AddError(key, fmt.Sprintf("not a boolean: %q", value))
		return def
	}
	return b
}
