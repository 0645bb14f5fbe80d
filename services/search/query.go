package search

import (
	"strings"
	"unicode/utf8"
)

// Tokens shorter than this never match anything; a query made only of
// short tokens returns no results.
const minTokenLength = 2

// PrefixResolver answers whether a word is a configured search prefix
// and what folders it scopes to.
type PrefixResolver interface {
	IsConfiguredPrefix(word string) bool
	FoldersFor(prefix string) ([]string, error)
	ExcludedFolders() ([]string, error)
}

// splitPrefix pulls a folder-scoping prefix off the front of a query.
// The first word only counts as a prefix when it is configured and at
// least one search term follows it; "th" alone is a term, "th topicality"
// scopes to th's folders and searches "topicality".
func splitPrefix(rawQuery string, prefixes PrefixResolver) (string, string) {
	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" {
		return "", ""
	}

	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) != 2 {
		return "", trimmed
	}

	word, remainder := parts[0], strings.TrimSpace(parts[1])
	if remainder != "" && prefixes.IsConfiguredPrefix(word) {
		return word, remainder
	}

	return "", trimmed
}

// tokenizeQuery lowercases and drops tokens below the minimum length.
func tokenizeQuery(terms string) []string {
	var tokens []string
	for _, token := range strings.Fields(terms) {
		if utf8.RuneCountInString(token) < minTokenLength {
			continue
		}
		tokens = append(tokens, strings.ToLower(token))
	}
	return tokens
}
