package groq

import "testing"

func TestNew(t *testing.T) {
	if got := New("k", "").Model(); got != DefaultModel {
		t.Fatalf("expected default model, got %q", got)
	}
	if got := New("k", "mixtral-8x7b-32768").Model(); got != "mixtral-8x7b-32768" {
		t.Fatalf("model override ignored, got %q", got)
	}
	if cfg := DefaultConfig("k"); cfg.BaseURL != BaseURL {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
}
