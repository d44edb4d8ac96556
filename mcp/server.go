package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/pkg/logging"
	"github.com/sweetpotato0/ai-reasoner/preprocess"
	"github.com/sweetpotato0/ai-reasoner/reasoning"
	"github.com/sweetpotato0/ai-reasoner/search"
)

// Tool names registered by NewServer.
const (
	ToolReason       = "reason"
	ToolInsightScope = search.DefaultMCPTool
	ToolGeneralQuery = "perform_general_query"
)

const generalQueryPrompt = "You are a helpful assistant. Provide a concise and accurate answer to the user's query."


// Reasoner answers a query with a response envelope. *reasoning.Agent satisfies it.
type Reasoner interface {
	Process(ctx context.Context, query string, opts ...reasoning.ProcessOption) *reasoning.Envelope
}

// ServerOption configures NewServer.
type ServerOption func(*Server)

// WithServerName overrides the advertised server name.
func WithServerName(name string) ServerOption {
	return func(s *Server) {
		if name != "" {
			s.name = name
		}
	}
}

// WithServerLogger sets the logger used for tool calls.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGeneralLLM registers the perform_general_query tool, a single
// generation call that skips classification and planning.
func WithGeneralLLM(client llm.Client) ServerOption {
	return func(s *Server) {
		s.general = client
	}
}

// Server exposes a Reasoner and a Searcher as MCP tools.
type Server struct {
	name     string
	agent    Reasoner
	searcher search.Searcher
	general  llm.Client
	logger   *slog.Logger
	sdk      *sdkmcp.Server
}

// NewServer registers the reason tool when agent is non-nil and the
// insight_scope tool when searcher is non-nil.
func NewServer(agent Reasoner, searcher search.Searcher, opts ...ServerOption) *Server {
	s := &Server{
		name:     "ai-reasoner",
		agent:    agent,
		searcher: searcher,
		logger:   logging.WithComponent("mcp_server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sdk = sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    s.name,
		Title:   "Reasoning agent",
		Version: Version,
	}, nil)

	if agent != nil {
		s.addReasonTool()
	}
	if searcher != nil {
		s.addInsightScopeTool()
	}
	if s.general != nil {
		s.addGeneralQueryTool()
	}
	return s
}

// SDK returns the underlying SDK server.
func (s *Server) SDK() *sdkmcp.Server {
	return s.sdk
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.sdk
	}, nil)
}

// Run serves a single session over t until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context, t sdkmcp.Transport) error {
	return s.sdk.Run(ctx, t)
}

type reasonArgs struct {
	Query          string `json:"query" jsonschema:"The problem or question to reason about"`
	MaxDepth       int    `json:"max_depth,omitempty" jsonschema:"Maximum planning depth, 1 to 10 (default 5)"`
	IncludeSources *bool  `json:"include_sources,omitempty" jsonschema:"Whether to report the sources used (default true)"`
}

func (s *Server) addReasonTool() {
	sdkmcp.AddTool(s.sdk, &sdkmcp.Tool{
		Name: ToolReason,
		Description: "Classify a query, plan an approach and solve it either by structured " +
			"step-by-step reasoning or by research. Returns the response envelope as JSON.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a reasonArgs) (*sdkmcp.CallToolResult, any, error) {
		var opts []reasoning.ProcessOption
		if a.MaxDepth > 0 {
			opts = append(opts, reasoning.WithMaxDepth(a.MaxDepth))
		}
		if a.IncludeSources != nil {
			opts = append(opts, reasoning.WithIncludeSources(*a.IncludeSources))
		}

		env := s.agent.Process(ctx, a.Query, opts...)
		data, err := json.Marshal(env)
		if err != nil {
			return nil, nil, fmt.Errorf("encode envelope: %w", err)
		}
		s.logger.Info("tool call", "tool", ToolReason, "success", env.Success, "execution_time", env.ExecutionTime)

		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
			IsError: !env.Success,
		}, nil, nil
	})
}

type insightArgs struct {
	UserQuery string `json:"user_query" jsonschema:"A natural-language query or topic of interest"`
}

type insightOutput struct {
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
}

func (s *Server) addInsightScopeTool() {
	sdkmcp.AddTool(s.sdk, &sdkmcp.Tool{
		Name: ToolInsightScope,
		Description: "Real-time web analysis: searches the web for the query and returns a concise " +
			"summary with embedded source links.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a insightArgs) (*sdkmcp.CallToolResult, any, error) {
		query := strings.TrimSpace(a.UserQuery)
		if query == "" {
			return nil, nil, errors.New("user_query is required")
		}

		raw, err := s.searcher.Search(ctx, query)
		if err != nil {
			s.logger.Warn("tool call failed", "tool", ToolInsightScope, "error", err)
			return nil, nil, err
		}
		raw = strings.TrimSpace(raw)
		summary, sources := preprocess.StripLinks(raw)
		s.logger.Info("tool call", "tool", ToolInsightScope, "sources", len(sources))

		return &sdkmcp.CallToolResult{
			Content:           []sdkmcp.Content{&sdkmcp.TextContent{Text: raw}},
			StructuredContent: insightOutput{Summary: summary, Sources: sources},
		}, nil, nil
	})
}

type generalArgs struct {
	UserQuery string `json:"user_query" jsonschema:"The question to answer directly"`
}

func (s *Server) addGeneralQueryTool() {
	sdkmcp.AddTool(s.sdk, &sdkmcp.Tool{
		Name:        ToolGeneralQuery,
		Description: "Answer a general question with a single model call, without planning or research.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a generalArgs) (*sdkmcp.CallToolResult, any, error) {
		query := strings.TrimSpace(a.UserQuery)
		if query == "" {
			return nil, nil, errors.New("user_query is required")
		}

		answer, err := llm.Text(ctx, s.general, &llm.Request{
			SystemPrompt: generalQueryPrompt,
			UserPrompt:   query,
		})
		if err != nil {
			s.logger.Warn("tool call failed", "tool", ToolGeneralQuery, "error", err)
			return nil, nil, err
		}
		s.logger.Info("tool call", "tool", ToolGeneralQuery, "answer_length", len(answer))

		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: answer}},
		}, nil, nil
	})
}
