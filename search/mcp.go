package search

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMCPTool is the remote web-analysis tool name.
const DefaultMCPTool = "insight_scope"

// ToolCaller invokes a named remote tool. mcp.Client satisfies it.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// MCP delegates searches to a remote MCP tool taking a user_query argument.
type MCP struct {
	caller ToolCaller
	tool   string
}

// NewMCP wraps caller. An empty tool name selects DefaultMCPTool.
func NewMCP(caller ToolCaller, tool string) *MCP {
	if tool == "" {
		tool = DefaultMCPTool
	}
	return &MCP{caller: caller, tool: tool}
}

// Search calls the remote tool with the query.
func (m *MCP) Search(ctx context.Context, query string) (string, error) {
	if m.caller == nil {
		return "", fmt.Errorf("mcp search: client is not configured")
	}
	text, err := m.caller.CallTool(ctx, m.tool, map[string]any{"user_query": query})
	if err != nil {
		return "", fmt.Errorf("mcp search %s: %w", m.tool, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", emptyResults("mcp "+m.tool, query)
	}
	return text, nil
}
