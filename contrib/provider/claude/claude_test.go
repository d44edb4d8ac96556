package claude

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sweetpotato0/ai-reasoner/llm"
)

const messageBody = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5-20250929",
  "content": [{"type": "text", "text": "FINAL ANSWER: 4"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`

func TestCompleteAddsJSONInstruction(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageBody)
	}))
	defer srv.Close()

	p := New(DefaultConfig("test", srv.URL))
	resp, err := p.Complete(context.Background(), &llm.Request{
		SystemPrompt: "classify the query",
		UserPrompt:   "2+2",
		MaxTokens:    800,
		JSONMode:     true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "FINAL ANSWER: 4" {
		t.Fatalf("unexpected text %q", resp.Text)
	}

	system, _ := json.Marshal(captured["system"])
	if !strings.Contains(string(system), "classify the query") || !strings.Contains(string(system), "single valid JSON object") {
		t.Fatalf("system prompt missing JSON instruction: %s", system)
	}
	if captured["max_tokens"] != float64(800) {
		t.Fatalf("max tokens not forwarded: %#v", captured["max_tokens"])
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(&Config{APIKey: "k"})
	if p.Model() != DefaultModel {
		t.Fatalf("expected default model, got %q", p.Model())
	}
	if p.config.MaxTokens != 4096 {
		t.Fatalf("expected default max tokens, got %d", p.config.MaxTokens)
	}
	if _, err := p.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}
