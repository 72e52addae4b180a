package verdict

import (
	"encoding/json"
	"regexp"
	"strings"
)

// codeBlockPattern matches markdown code blocks with optional language tag.
// Captures: (1) optional language, (2) content.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// extractObject locates a JSON object embedded in judge prose and decodes it
// into a map. Priority:
//  1. an object inside a ```json (or untagged) code block
//  2. a raw, bracket-balanced object anywhere in the text
//  3. a truncated object, decoded pair by pair until the cut
//
// ok is false when the text carries nothing object-shaped at all.
func extractObject(response string) (map[string]any, bool) {
	if content, found := extractFromCodeBlock(response); found {
		if obj, ok := decodeObject(content); ok {
			return obj, true
		}
	}

	start := strings.Index(response, "{")
	if start < 0 {
		return nil, false
	}
	content := response[start:]

	if jsonStr := findMatchingBracket(content); jsonStr != "" {
		if obj, ok := decodeObject(jsonStr); ok {
			return obj, true
		}
	}

	// Unbalanced braces: the judge's output was cut off mid-object. Keep
	// whatever complete key/value pairs precede the cut.
	return decodePartialObject(content)
}

// extractFromCodeBlock finds object content in markdown code blocks,
// skipping blocks tagged as languages other than json.
func extractFromCodeBlock(response string) (string, bool) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}
		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])
		if lang != "" && lang != "json" {
			continue
		}
		if strings.HasPrefix(content, "{") {
			return content, true
		}
	}
	return "", false
}

// findMatchingBracket returns the complete object from the start of s by
// matching braces, respecting strings and escapes. Empty when unbalanced.
func findMatchingBracket(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

// decodeObject unmarshals a complete JSON object into a map.
func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// decodePartialObject reads an object token stream and keeps every key/value
// pair that decoded completely before the input ran out. This tolerates
// truncated judge output without ever failing.
func decodePartialObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}

	obj := map[string]any{}
	for {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := keyTok.(string)
		if !ok {
			break
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			break
		}
		obj[key] = value
	}

	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}
