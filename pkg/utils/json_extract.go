package utils

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	errNoJSON       = errors.New("no json found in response")
	looseObjectExpr = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls the first JSON object or array out of a model completion.
// Markdown fences and chatty prefixes are dropped; the balanced-bracket scan
// respects string literals, and a greedy regex is the last resort.
func ExtractJSON(response string) (string, error) {
	candidates := JSONCandidates(response)
	if len(candidates) == 0 {
		return "", errNoJSON
	}
	return candidates[0], nil
}

// JSONCandidates lists every top-level JSON object or array in the
// completion, in order of appearance. Callers decode them in turn and keep
// the first one with the shape they expect.
func JSONCandidates(response string) []string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	if response == "" {
		return nil
	}
	if json.Valid([]byte(response)) && (response[0] == '{' || response[0] == '[') {
		return []string{response}
	}

	var out []string
	for i := 0; i < len(response); i++ {
		var closer byte
		switch response[i] {
		case '{':
			closer = '}'
		case '[':
			closer = ']'
		default:
			continue
		}
		end := findMatching(response, i, response[i], closer)
		if end == -1 {
			continue
		}
		if candidate := response[i : end+1]; json.Valid([]byte(candidate)) {
			out = append(out, candidate)
			i = end
		}
	}
	if len(out) > 0 {
		return out
	}

	if loose := looseObjectExpr.FindString(response); loose != "" && json.Valid([]byte(loose)) {
		return []string{loose}
	}
	return nil
}

func findMatching(s string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
