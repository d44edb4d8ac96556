package preprocess

import (
	"regexp"
	"strings"
)

var (
	markdownLink     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	urlParenthetical = regexp.MustCompile(`\s*\([^)]*https?://[^)]+\)`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,;])`)
)

// StripLinks turns generated prose with markdown citations into plain text.
// Every [text](url) is replaced by its text, leftover parentheticals holding a
// bare http(s) URL are dropped, and whitespace is normalised. The returned
// sources are the link targets truncated at the first '?', in order of first
// appearance and without duplicates. Applying StripLinks to its own output
// returns the same text and no sources.
func StripLinks(raw string) (string, []string) {
	sources := make([]string, 0)
	seen := make(map[string]struct{})
	for _, m := range markdownLink.FindAllStringSubmatch(raw, -1) {
		canonical := CanonicalURL(m[2])
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		sources = append(sources, canonical)
	}

	clean := markdownLink.ReplaceAllString(raw, "$1")
	clean = urlParenthetical.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(whitespaceRun.ReplaceAllString(clean, " "))
	clean = spaceBeforePunct.ReplaceAllString(clean, "$1")
	return clean, sources
}

// CanonicalURL drops the query string from a link target.
func CanonicalURL(u string) string {
	if idx := strings.IndexByte(u, '?'); idx >= 0 {
		return u[:idx]
	}
	return u
}

// MergeSources appends the sources not already present in dst, keeping order.
func MergeSources(dst []string, sources ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
