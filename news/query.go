package news

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var stopwords = map[string]struct{}{
	"give": {}, "me": {}, "news": {}, "about": {}, "the": {}, "case": {},
	"latest": {}, "report": {}, "vs": {}, "is": {}, "explain": {},
}

// NormalizeQuery lowercases a raw topic and drops conversational filler so the search
// API receives only keywords. Tokens are split on single spaces and keep their order.
// Empty tokens from repeated spaces are dropped. The result may be empty.
func NormalizeQuery(topic string) string {
	words := strings.Split(cases.Lower(language.Und).String(topic), " ")
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		keywords = append(keywords, w)
	}
	return strings.Join(keywords, " ")
}
