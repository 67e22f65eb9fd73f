package keys

import (
	"fmt"
	"strings"
	"unicode"
)

// sanitizeKey lowercases s and replaces every run of characters that are
// not letters or digits with a single hyphen.
func sanitizeKey(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SearchResult returns the object key for the result set of one search.
func SearchResult(searchID, query string) string {
	name := sanitizeKey(query)
	if name == "" {
		name = "results"
	}
	return fmt.Sprintf("searches/%s/%s.json", searchID, name)
}
