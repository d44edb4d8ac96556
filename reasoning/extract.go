package reasoning

import (
	"regexp"
	"strings"
)

// NoAnswer is returned by ExtractFinalAnswer when the text has no final
// answer line.
const NoAnswer = "Answer not clearly identified"

var finalAnswerPattern = regexp.MustCompile(`(?is)FINAL ANSWER:\s*(.+?)(?:\n\n|\n$|$)`)

// ExtractFinalAnswer returns the text after the first "FINAL ANSWER:" marker,
// up to a blank line or the end of the text.
func ExtractFinalAnswer(text string) string {
	m := finalAnswerPattern.FindStringSubmatch(text)
	if m == nil {
		return NoAnswer
	}
	answer := strings.TrimSpace(m[1])
	if answer == "" {
		return NoAnswer
	}
	return answer
}
