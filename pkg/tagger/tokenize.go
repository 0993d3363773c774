package tagger

import (
	"strings"
	"unicode"
)

// ============================================================================
// TextRange
// ============================================================================

// TextRange represents a byte offset span in text
type TextRange struct {
	Start int
	End   int
}

// NewRange creates a new TextRange
func NewRange(start, end int) TextRange {
	return TextRange{Start: start, End: end}
}

// Len returns the length of the range
func (r TextRange) Len() int {
	return r.End - r.Start
}

// Slice extracts the text covered by this range
func (r TextRange) Slice(text string) string {
	if r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return ""
	}
	return text[r.Start:r.End]
}

// ============================================================================
// Tokenization
// ============================================================================

// Tokenize splits text into word and punctuation ranges. Letters, digits,
// apostrophes and hyphens stay together; every punctuation or symbol rune is its
// own token; a trailing "'s" is split off as a clitic.
func Tokenize(text string) []TextRange {
	// Heuristic: Average word length 5 + punctuation. ~1/6 of text len.
	tokens := make([]TextRange, 0, len(text)/6+1)
	start := -1

	flush := func(end int) {
		if start == -1 {
			return
		}
		word := text[start:end]
		if n := len(word); n > 2 && strings.EqualFold(word[n-2:], "'s") {
			tokens = append(tokens, NewRange(start, end-2), NewRange(end-2, end))
		} else {
			tokens = append(tokens, NewRange(start, end))
		}
		start = -1
	}

	for i, ch := range text {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '\'' || ch == '-' {
			// Inside a word
			if start == -1 {
				start = i
			}
			continue
		}
		flush(i)
		if unicode.IsPunct(ch) || unicode.IsSymbol(ch) {
			tokens = append(tokens, NewRange(i, i+len(string(ch))))
		}
	}
	flush(len(text))
	return tokens
}

// Words tokenizes text and returns the token strings.
func Words(text string) []string {
	ranges := Tokenize(text)
	words := make([]string, len(ranges))
	for i, r := range ranges {
		words[i] = r.Slice(text)
	}
	return words
}
