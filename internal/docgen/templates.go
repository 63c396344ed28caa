package docgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// matchCutoff is the minimum normalized similarity for a template name to be
// accepted as a match for a classified document type.
const matchCutoff = 0.5

var placeholderPattern = regexp.MustCompile(`\{(.*?)\}`)

// bestTemplateMatch fuzzy-matches a document type against stored template
// names and returns the closest one. Names are uppercased before comparison
// since the classifier always emits uppercase types. Similarity is
// 1 - dist/maxlen, where dist is the Levenshtein edit distance; candidates
// below the cutoff are rejected. Returns "" when nothing clears the cutoff.
func bestTemplateMatch(docType string, templates []string) string {
	var (
		best      string
		bestScore float64
	)
	docType = strings.ToUpper(docType)
	for _, name := range templates {
		score := similarity(docType, strings.ToUpper(name))
		if score >= matchCutoff && score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// extractPlaceholders returns the distinct {TOKEN} names found in a template,
// in first-occurrence order.
func extractPlaceholders(text string) []string {
	seen := make(map[string]bool)
	var placeholders []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		token := m[1]
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		placeholders = append(placeholders, token)
	}
	return placeholders
}

// fillTemplate substitutes every {KEY} occurrence with its extracted value.
// List values are joined with ", "; keys with no extracted value render as
// empty strings so no placeholder survives into the output. Running it over
// already-filled text is a no-op.
func fillTemplate(text string, values map[string]any, placeholders []string) string {
	for _, key := range placeholders {
		text = strings.ReplaceAll(text, "{"+key+"}", renderValue(values[key]))
	}
	return text
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, renderValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
