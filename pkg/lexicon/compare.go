package lexicon

import "strings"

// WordComparer decides whether an input word satisfies a pattern word.
type WordComparer interface {
	Matches(input, pattern string) bool
	MatchesAny(input string, candidates []string) bool
}

// ExactComparer compares case-insensitively.
type ExactComparer struct{}

// Matches implements WordComparer
func (ExactComparer) Matches(input, pattern string) bool {
	return strings.EqualFold(input, pattern)
}

// MatchesAny implements WordComparer
func (c ExactComparer) MatchesAny(input string, candidates []string) bool {
	for _, cand := range candidates {
		if c.Matches(input, cand) {
			return true
		}
	}
	return false
}

// SpellingComparer also accepts known misspellings of the pattern word.
type SpellingComparer struct {
	// misspelling -> correct spelling, both lowercase
	corrections map[string]string
}

// NewSpellingComparer creates a comparer seeded with common English misspellings
func NewSpellingComparer() *SpellingComparer {
	c := &SpellingComparer{corrections: make(map[string]string, 32)}
	for wrong, right := range map[string]string{
		"teh":        "the",
		"recieve":    "receive",
		"definately": "definitely",
		"seperate":   "separate",
		"occured":    "occurred",
		"untill":     "until",
		"wich":       "which",
		"beleive":    "believe",
		"freind":     "friend",
		"becuase":    "because",
		"thier":      "their",
		"alot":       "a lot",
		"goverment":  "government",
		"tommorow":   "tomorrow",
		"wierd":      "weird",
	} {
		c.Add(wrong, right)
	}
	return c
}

// Add registers a misspelling
func (c *SpellingComparer) Add(misspelling, correct string) {
	c.corrections[strings.ToLower(misspelling)] = strings.ToLower(correct)
}

// Correct returns the known correction for word, or word unchanged.
func (c *SpellingComparer) Correct(word string) string {
	if right, ok := c.corrections[strings.ToLower(word)]; ok {
		return right
	}
	return word
}

// Matches implements WordComparer
func (c *SpellingComparer) Matches(input, pattern string) bool {
	if strings.EqualFold(input, pattern) {
		return true
	}
	return strings.EqualFold(c.Correct(input), pattern)
}

// MatchesAny implements WordComparer
func (c *SpellingComparer) MatchesAny(input string, candidates []string) bool {
	for _, cand := range candidates {
		if c.Matches(input, cand) {
			return true
		}
	}
	return false
}
