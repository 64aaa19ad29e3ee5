package generative

import (
	"strings"
)

// CleanJSON strips a markdown code fence from a model response.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// extractObject returns the outermost {...} span of a response, after fence stripping.
func extractObject(raw string) (string, error) {
	clean := CleanJSON(raw)
	if clean == "" {
		return "", ErrEmptyResponse
	}
	i := strings.Index(clean, "{")
	j := strings.LastIndex(clean, "}")
	if i < 0 || j <= i {
		return "", ErrNoJSONObject
	}
	return clean[i : j+1], nil
}
