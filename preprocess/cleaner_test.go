package preprocess

import (
	"strings"
	"testing"
)

func TestCleanBasic(t *testing.T) {
	in := "a\t\tb\x07\n\n\n\nc   d"
	if got := CleanBasic(in); got != "a b\n\nc d" {
		t.Fatalf("CleanBasic = %q", got)
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<html><body><h1>Title</h1><p>First para.</p><ul><li>one</li><li></li></ul><script>x()</script></body></html>`
	got, err := HTMLToText(html)
	if err != nil {
		t.Fatalf("HTMLToText error: %v", err)
	}
	for _, want := range []string{"# Title", "First para.", "- one"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "x()") {
		t.Fatalf("script content leaked: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate(" short ", 10); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
}
