package analysis

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// North American layout: optional +1, optional parentheses, '-', '.' or single-space separators.
	phonePattern = regexp.MustCompile(`(\+?1[-. ]?)?\(?[0-9]{3}\)?[-. ]?[0-9]{3}[-. ]?[0-9]{4}`)

	locationMarkers = []string{"location", "based", "address"}
)

// ExtractContact pulls contact details out of raw resume text. Missing fields are "".
func ExtractContact(text string) Contact {
	return Contact{
		Email:    emailPattern.FindString(text),
		Phone:    phonePattern.FindString(text),
		Location: findLocation(text),
	}
}

// findLocation returns the first line mentioning a location marker, verbatim but trimmed.
func findLocation(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if containsAny(strings.ToLower(line), locationMarkers) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
