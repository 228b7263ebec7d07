package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// extractJSONArray parses a JSON array out of model output that may
// contain extra commentary before or after the JSON. Returns nil when no
// parseable array is present.
func extractJSONArray(text string, out any) bool {
	text = strings.TrimSpace(text)

	if json.Unmarshal([]byte(text), out) == nil {
		return true
	}

	// Fall back to the first [...] block in the text.
	if match := arrayPattern.FindString(text); match != "" {
		if json.Unmarshal([]byte(match), out) == nil {
			return true
		}
	}

	return false
}
