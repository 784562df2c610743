package tokenizer

import (
	"regexp"
	"sort"
	"strings"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// camelCaseRegex handles cases like "theOffice" -> "the Office" or "myAPI" -> "my API"
var camelCaseRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// Tokenize converts a string into a slice of tokens.
// It splits camel/PascalCase, lowercases the string, and splits by non-alphanumeric characters.
func Tokenize(text string) []string {
	// 1. Split camelCase/PascalCase
	processedText := acronymRegex.ReplaceAllString(text, "$1 $2")
	processedText = camelCaseRegex.ReplaceAllString(processedText, "$1 $2")

	// 2. Lowercase
	lowerText := strings.ToLower(processedText)

	// 3. Split by non-alphanumeric characters
	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" { // Filter out empty strings
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// substitution is one compiled normalization rule.
type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// Normalizer rewrites a configured set of punctuation-laden compound terms
// (e.g. ".NET", "C#") into single replacement tokens before tokenization, so
// the tokenizer does not break them into misleading fragments. The same
// Normalizer instance must be used everywhere titles are tokenized, so every
// title in a corpus is normalized identically.
type Normalizer struct {
	substitutions []substitution
}

// NewNormalizer compiles a substitution table into a Normalizer. Matching is
// case-insensitive; longer keys take precedence over shorter ones, so
// "asp.net" wins over ".net".
func NewNormalizer(table map[string]string) *Normalizer {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	substitutions := make([]substitution, 0, len(keys))
	for _, key := range keys {
		substitutions = append(substitutions, substitution{
			pattern:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key)),
			replacement: table[key],
		})
	}

	return &Normalizer{substitutions: substitutions}
}

// Normalize applies the substitution table to a title.
func (n *Normalizer) Normalize(text string) string {
	for _, sub := range n.substitutions {
		text = sub.pattern.ReplaceAllString(text, sub.replacement)
	}
	return text
}

// Tokenize normalizes a title and converts it into tokens.
func (n *Normalizer) Tokenize(text string) []string {
	return Tokenize(n.Normalize(text))
}

// TokenSet returns the unique tokens of a normalized title.
func (n *Normalizer) TokenSet(text string) map[string]struct{} {
	tokens := n.Tokenize(text)

	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
