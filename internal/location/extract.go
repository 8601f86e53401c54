// Package location pulls a place name out of a weather question.
package location

import (
	"regexp"
	"strings"
)

// inPattern captures everything after "in " up to the first character that
// is not a letter or whitespace. Multi-word captures run to the end of the
// letters, so "weather in Lusaka tomorrow" yields "Lusaka tomorrow".
var inPattern = regexp.MustCompile(`(?i)in ([a-zA-Z\s]+)`)

var stopWords = map[string]struct{}{
	"weather":     {},
	"in":          {},
	"the":         {},
	"for":         {},
	"forecast":    {},
	"temperature": {},
	"climate":     {},
	"rain":        {},
	"what":        {},
	"what's":      {},
	"whats":       {},
	"how":         {},
	"is":          {},
	"like":        {},
}

// Extract returns the location mentioned in text, or "" if there is none
func Extract(text string) string {
	if m := inPattern.FindStringSubmatch(text); m != nil {
		if loc := strings.TrimSpace(m[1]); loc != "" {
			return loc
		}
	}

	words := strings.Fields(text)
	for i := len(words) - 1; i >= 0; i-- {
		word := strings.Trim(words[i], "?!.,;:\"'")
		if word == "" {
			continue
		}
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			continue
		}
		return word
	}
	return ""
}
