package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON parses a model reply that is expected to be a JSON object.
// Models often wrap JSON in markdown code fences; those are stripped before
// parsing. A reply that still fails to parse is the caller's hard failure.
func ExtractJSON(content string, out any) error {
	cleaned := StripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("model reply is not valid JSON: %w", err)
	}
	return nil
}

// StripCodeFence removes a surrounding markdown code fence, if present.
func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
