package tokenizer

import (
	"strings"
	"testing"
)

func TestTokenizer(t *testing.T) {
	tok, err := New("cl100k_base")
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}

	text := "The quick brown fox jumps over the lazy dog."
	n := tok.Count(text)
	if n == 0 || n > len(text) {
		t.Fatalf("implausible token count %d", n)
	}
	if got := tok.Truncate(text, n); got != text {
		t.Fatalf("truncate at full length changed text: %q", got)
	}
	short := tok.Truncate(text, 3)
	if !strings.HasPrefix(text, short) || tok.Count(short) > 3 {
		t.Fatalf("unexpected truncation %q", short)
	}
	if tok.Truncate(text, 0) != "" {
		t.Fatal("zero limit should yield empty text")
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("no-such-encoding"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}
