package retrieval

import (
	"regexp"
	"strings"
)

// wordPattern approximates model tokens: letter runs, digit runs, or any
// single non-space rune.
var wordPattern = regexp.MustCompile(`\p{L}[\p{L}\p{M}]*|\p{N}+|[^\s]`)

const (
	defaultChunkTokens   = 256
	defaultOverlapTokens = 32
)

// chunkText splits text into windows of at most size word tokens, with
// overlap tokens shared between consecutive windows. Original whitespace
// inside a window is preserved.
func chunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkTokens
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	locs := wordPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(locs); {
		end := start + size
		if end > len(locs) {
			end = len(locs)
		}
		chunks = append(chunks, text[locs[start][0]:locs[end-1][1]])
		if end == len(locs) {
			break
		}
		start = end - overlap
	}
	return chunks
}
