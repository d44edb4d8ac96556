package preprocess

import (
	"reflect"
	"testing"
)

func TestStripLinksDeduplicatesCanonicalSources(t *testing.T) {
	clean, sources := StripLinks("See [docs](https://x.com/a?utm=1) and [docs](https://x.com/a?utm=2)")
	if clean != "See docs and docs" {
		t.Fatalf("unexpected clean text %q", clean)
	}
	if !reflect.DeepEqual(sources, []string{"https://x.com/a"}) {
		t.Fatalf("unexpected sources %v", sources)
	}
}

func TestStripLinks(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		sources []string
	}{
		{
			name:    "keeps source order",
			in:      "[B](https://b.io/x) then [A](https://a.io/y?q=1) then [B again](https://b.io/x?ref=2)",
			want:    "B then A then B again",
			sources: []string{"https://b.io/x", "https://a.io/y"},
		},
		{
			name:    "drops trailing url parentheticals",
			in:      "Go 1.24 shipped in February (see https://go.dev/blog/go1.24) .",
			want:    "Go 1.24 shipped in February.",
			sources: []string{},
		},
		{
			name:    "nested citation in parentheses",
			in:      "Paris is the capital ([wiki](https://en.wikipedia.org/wiki/Paris?utm_source=openai)).",
			want:    "Paris is the capital (wiki).",
			sources: []string{"https://en.wikipedia.org/wiki/Paris"},
		},
		{
			name:    "collapses whitespace and fixes punctuation",
			in:      "one  \n two ,  three ;\tfour .",
			want:    "one two, three; four.",
			sources: []string{},
		},
		{
			name:    "empty input",
			in:      "",
			want:    "",
			sources: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sources := StripLinks(tt.in)
			if got != tt.want {
				t.Fatalf("clean text = %q, want %q", got, tt.want)
			}
			if !reflect.DeepEqual(sources, tt.sources) {
				t.Fatalf("sources = %v, want %v", sources, tt.sources)
			}
		})
	}
}

func TestStripLinksIdempotent(t *testing.T) {
	inputs := []string{
		"See [docs](https://x.com/a?utm=1) and [docs](https://x.com/a?utm=2)",
		"Result (source: https://example.com/page) is final , really .",
		"plain text",
	}
	for _, in := range inputs {
		first, _ := StripLinks(in)
		second, extra := StripLinks(first)
		if second != first {
			t.Fatalf("second pass changed text: %q -> %q", first, second)
		}
		if len(extra) != 0 {
			t.Fatalf("second pass produced sources %v", extra)
		}
	}
}

func TestMergeSources(t *testing.T) {
	got := MergeSources([]string{"a", "b"}, "b", "c", "a", "d")
	if !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("unexpected merge result %v", got)
	}
}

func TestCanonicalURL(t *testing.T) {
	if got := CanonicalURL("https://x.io/p?a=1?b=2"); got != "https://x.io/p" {
		t.Fatalf("CanonicalURL = %q", got)
	}
	if got := CanonicalURL("https://x.io/p"); got != "https://x.io/p" {
		t.Fatalf("CanonicalURL = %q", got)
	}
}
