package helpers

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LimitWords keeps the first maxWords whitespace separated words of text and appends
// marker when anything was dropped. Whitespace inside the kept part is left as is so
// line-based formats (speaker turns) survive. The second return value reports whether
// a cut happened.
func LimitWords(text string, maxWords int, marker string) (string, bool) {
	if maxWords <= 0 {
		return text, false
	}
	end, ok := wordBoundary(text, maxWords)
	if !ok {
		return text, false
	}
	return text[:end] + marker, true
}

// wordBoundary returns the byte offset just past the n-th word when text holds more
// than n words.
func wordBoundary(text string, n int) (int, bool) {
	words := 0
	inWord := false
	end := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if inWord {
				inWord = false
				if words == n {
					end = i
				}
			}
		} else if !inWord {
			inWord = true
			words++
			if words == n+1 {
				return end, true
			}
		}
		i += size
	}
	return 0, false
}

// CountWords counts whitespace separated words.
func CountWords(text string) int { return len(strings.Fields(text)) }
