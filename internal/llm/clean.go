package llm

import (
	"regexp"
	"strings"
)

// thinkBlockPattern matches <think>...</think> reasoning blocks, which some
// attacker models emit before the actual prompt text.
var thinkBlockPattern = regexp.MustCompile(`(?is)<think>.*?</think>`)

// CleanOutput strips reasoning blocks and blank lines from attacker or judge
// output, leaving only the usable text.
func CleanOutput(content string) string {
	cleaned := thinkBlockPattern.ReplaceAllString(content, "")

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
