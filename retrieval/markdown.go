package retrieval

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	markdownMaxHeadingLevel = 3
	markdownMinSection      = 240
)

var markdownParser = goldmark.New()

// splitMarkdown cuts content at headings up to level three. Each section
// starts with its heading text. Sections shorter than markdownMinSection
// bytes are merged into the next one.
func splitMarkdown(content string) []string {
	source := []byte(content)
	root := markdownParser.Parser().Parse(text.NewReader(source))

	var starts []int
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level > markdownMaxHeadingLevel {
			return ast.WalkContinue, nil
		}
		lines := heading.Lines()
		if lines == nil || lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		starts = append(starts, lineStart(source, lines.At(0).Start))
		return ast.WalkSkipChildren, nil
	})

	if len(starts) == 0 {
		if raw := strings.TrimSpace(content); raw != "" {
			return []string{raw}
		}
		return nil
	}

	var sections []string
	if intro := strings.TrimSpace(string(source[:starts[0]])); intro != "" {
		sections = append(sections, intro)
	}
	for i, start := range starts {
		end := len(source)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if raw := strings.TrimSpace(string(source[start:end])); raw != "" {
			sections = append(sections, raw)
		}
	}
	return mergeShortSections(sections)
}

// lineStart moves pos back to the start of its line so ATX markers stay
// with their heading.
func lineStart(source []byte, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

func mergeShortSections(sections []string) []string {
	merged := make([]string, 0, len(sections))
	var pending string
	for i, sec := range sections {
		if pending != "" {
			sec = pending + "\n\n" + sec
			pending = ""
		}
		if len(sec) < markdownMinSection && i < len(sections)-1 {
			pending = sec
			continue
		}
		merged = append(merged, sec)
	}
	return merged
}
