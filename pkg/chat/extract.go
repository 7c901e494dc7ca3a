package chat

import (
	"regexp"
	"strings"
)

// interestKeywords is the fixed product/feature vocabulary scanned for on
// every user message. Matches are recorded in this canonical casing.
var interestKeywords = []string{
	"RV400", "RV320", "battery", "range", "price", "service", "app", "charging", "subscription",
}

// locationPattern matches a capitalized location phrase following a
// preposition, e.g. "in Mumbai" or "from New Delhi".
var locationPattern = regexp.MustCompile(`(?:in|from|at)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

// ExtractInterests returns the configured keywords present in input,
// case-insensitively, in vocabulary order.
func ExtractInterests(input string) []string {
	lower := strings.ToLower(input)
	var out []string
	for _, kw := range interestKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			out = append(out, kw)
		}
	}
	return out
}

// ExtractLocation returns the first capitalized location phrase mentioned in
// input, if any.
func ExtractLocation(input string) (string, bool) {
	m := locationPattern.FindStringSubmatch(input)
	if m == nil {
		return "", false
	}
	return m[1], true
}
