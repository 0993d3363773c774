// Package tagger is a small lexicon tagger producing Penn Treebank tags.
// It stands in for a statistical tagger so text can be parsed end to end.
package tagger

import (
	"strings"
	"unicode"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

// Tagger performs Part-of-Speech tagging with context awareness
type Tagger struct {
	lexicon map[string]phrase.Tag
}

// New creates a Tagger with the default English lexicon
func New() *Tagger {
	t := &Tagger{
		lexicon: make(map[string]phrase.Tag, 512),
	}
	t.loadDefaultLexicon()
	return t
}

// Add registers or overrides a word's tag.
func (t *Tagger) Add(word string, tag phrase.Tag) {
	t.lexicon[strings.ToLower(word)] = tag
}

// Tag tokenizes text and tags every token. It never fails; unknown words are
// guessed from their shape.
func (t *Tagger) Tag(text string) []phrase.Token {
	words := Words(text)
	tags := t.TagWords(words)
	out := make([]phrase.Token, len(words))
	for i := range words {
		out[i] = phrase.Token{Word: words[i], Tag: tags[i]}
	}
	return out
}

// TagWords tags pre-split words.
// Uses a 2-pass approach:
// 1. Baseline: Dictionary lookup + Suffix Heuristics
// 2. Reinforcement: Contextual correction rules
func (t *Tagger) TagWords(words []string) []phrase.Tag {
	tags := make([]phrase.Tag, len(words))

	// Pass 1: Baseline (Static)
	for i, word := range words {
		tags[i] = t.lookupBaseline(word, i == 0 || phrase.IsTerminalWord(words[i-1]))
	}

	// Pass 2: Context Reinforcement
	for i := range tags {
		lower := strings.ToLower(words[i])
		var prev, next phrase.Tag
		if i > 0 {
			prev = tags[i-1]
		}
		if i+1 < len(tags) {
			next = tags[i+1]
		}

		switch {
		// "The [run]", "A fast [attack]"
		case isVerbTag(tags[i]) && !isAuxWord(lower) && (prev == phrase.DT || prev == phrase.PRPS || isAdjTag(prev)):
			tags[i] = phrase.NN

		// "can [run]", "to [run]"
		case (prev == phrase.MD || prev == phrase.TO) && (isNounTag(tags[i]) || tags[i] == phrase.VBP):
			tags[i] = phrase.VB

		// "has [walked]", "was [taken]"
		case tags[i] == phrase.VBD && i > 0 && isPerfectOrPassive(strings.ToLower(words[i-1])):
			tags[i] = phrase.VBN

		case lower == "that":
			tags[i] = resolveThat(prev, next)

		case lower == "there":
			if i+1 < len(words) && isBeWord(strings.ToLower(words[i+1])) {
				tags[i] = phrase.EX
			}

		// "her" before a noun is possessive
		case lower == "her" && (isNounTag(next) || isAdjTag(next)):
			tags[i] = phrase.PRPS
		}
	}

	return tags
}

func (t *Tagger) lookupBaseline(word string, initial bool) phrase.Tag {
	lower := strings.ToLower(word)
	if tag, ok := t.lexicon[lower]; ok {
		return tag
	}
	return t.inferTag(word, lower, initial)
}

func (t *Tagger) inferTag(word, lower string, initial bool) phrase.Tag {
	runes := []rune(word)
	if len(runes) == 1 {
		ch := runes[0]
		switch {
		case ch == '.' || ch == '?' || ch == '!':
			return phrase.Stop
		case ch == ',':
			return phrase.Comma
		case ch == ':' || ch == ';' || ch == '-':
			return phrase.Colon
		case ch == '(':
			return "-LRB-"
		case ch == ')':
			return "-RRB-"
		case ch == '"':
			return "``"
		case ch == '$' || ch == '#':
			return phrase.Tag(string(ch))
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			return phrase.SYM
		}
	}

	if isNumber(word) {
		return phrase.CD
	}

	// Proper noun: capitalized and not forced by sentence position
	if !initial && len(runes) > 0 && unicode.IsUpper(runes[0]) {
		return phrase.NNP
	}

	// Inflections of known verbs
	if base, tag, ok := t.verbInflection(lower); ok && base != "" {
		return tag
	}

	// Suffix heuristics
	switch {
	case strings.HasSuffix(lower, "ly"):
		return phrase.RB
	case strings.HasSuffix(lower, "ing"):
		return phrase.VBG
	case strings.HasSuffix(lower, "ed"):
		return phrase.VBD
	case hasAnySuffix(lower, "ness", "tion", "ment", "ity", "er", "or", "ism"):
		return phrase.NN
	case hasAnySuffix(lower, "ful", "less", "ous", "ive", "able", "ible", "al", "ic"):
		return phrase.JJ
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss"):
		return phrase.NNS
	}

	if initial && len(runes) > 0 && unicode.IsUpper(runes[0]) && len(runes) > 1 {
		// sentence-initial unknown capitalized word: most likely a name
		return phrase.NNP
	}

	// Default: noun
	return phrase.NN
}

// verbInflection maps "walks", "walked", "walking" to a known base verb.
func (t *Tagger) verbInflection(lower string) (string, phrase.Tag, bool) {
	try := func(base string, tag phrase.Tag) (string, phrase.Tag, bool) {
		if tg, ok := t.lexicon[base]; ok && (tg == phrase.VB || tg == phrase.VBP) {
			return base, tag, true
		}
		return "", "", false
	}
	switch {
	case strings.HasSuffix(lower, "ing"):
		stem := strings.TrimSuffix(lower, "ing")
		if b, tg, ok := try(stem, phrase.VBG); ok {
			return b, tg, ok
		}
		return try(stem+"e", phrase.VBG)
	case strings.HasSuffix(lower, "ed"):
		stem := strings.TrimSuffix(lower, "ed")
		if b, tg, ok := try(stem, phrase.VBD); ok {
			return b, tg, ok
		}
		return try(stem+"e", phrase.VBD)
	case strings.HasSuffix(lower, "es"):
		if b, tg, ok := try(strings.TrimSuffix(lower, "es"), phrase.VBZ); ok {
			return b, tg, ok
		}
		return try(strings.TrimSuffix(lower, "s"), phrase.VBZ)
	case strings.HasSuffix(lower, "s"):
		return try(strings.TrimSuffix(lower, "s"), phrase.VBZ)
	}
	return "", "", false
}

func resolveThat(prev, next phrase.Tag) phrase.Tag {
	switch {
	case isNounTag(prev):
		return phrase.WDT
	case isNounTag(next) || isAdjTag(next):
		return phrase.DT
	default:
		return phrase.IN
	}
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return unicode.IsDigit([]rune(s)[0])
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func isVerbTag(t phrase.Tag) bool {
	return phrase.PartOf(t) == phrase.PartVerb
}

func isNounTag(t phrase.Tag) bool {
	return phrase.PartOf(t) == phrase.PartNoun
}

func isAdjTag(t phrase.Tag) bool {
	return phrase.PartOf(t) == phrase.PartAdjective
}

func isBeWord(w string) bool {
	switch w {
	case "is", "are", "was", "were", "be", "been", "'s":
		return true
	}
	return false
}

func isAuxWord(w string) bool {
	switch w {
	case "is", "are", "am", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did":
		return true
	}
	return false
}

func isPerfectOrPassive(w string) bool {
	switch w {
	case "has", "have", "had", "having", "is", "are", "was", "were", "be", "been", "being":
		return true
	}
	return false
}
