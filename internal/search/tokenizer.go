package search

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of letters, digits and underscores in any script
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases text and splits it into alphanumeric tokens.
// The same function is used when the index is built and when it is queried.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// normalizeValue lowercases a categorical filter value
func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
