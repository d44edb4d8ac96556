// Package search defines the web-search port and its providers. Searchers
// return prose that may contain markdown citation links.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweetpotato0/ai-reasoner/prompt"
)

// Searcher looks up a query on the web.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string) (string, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// Result is one hit from a result-list provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Render formats results as markdown prose: one paragraph per hit, each
// starting with a [title](url) citation.
func Render(results []Result) string {
	b := prompt.NewBuilder()
	for _, r := range results {
		snippet := strings.TrimSpace(r.Snippet)
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = r.URL
		}
		if r.URL == "" && snippet == "" {
			continue
		}
		if b.Len() > 0 {
			b.Add("\n\n")
		}
		switch {
		case r.URL == "":
			b.AddFormat("%s: %s", title, snippet)
		case snippet == "":
			b.AddFormat("[%s](%s)", title, r.URL)
		default:
			b.AddFormat("[%s](%s): %s", title, r.URL, snippet)
		}
	}
	return b.Build()
}

func emptyResults(provider, query string) error {
	return fmt.Errorf("%s returned no results for %q", provider, query)
}
