package phrase

import (
	"unicode"
	"unicode/utf8"
)

// ============================================================================
// Tag Classification Table
// ============================================================================

// Token is one (word, tag) pair from a tagger.
type Token struct {
	Word string
	Tag  Tag
}

// LeafConstructor wraps a word into a leaf of a fixed tag and part.
type LeafConstructor func(word string) *Phrase

// table is built in init and read-only afterwards. Register* must only be called
// during program start, before any parse runs.
type table struct {
	parts map[Tag]Part
	whole map[Tag]bool
}

var defaultTable = newTable()

func newTable() *table {
	t := &table{
		parts: make(map[Tag]Part, 64),
		whole: make(map[Tag]bool, 8),
	}

	for _, tag := range []Tag{NN, NNS, NNP, NNPS} {
		t.parts[tag] = PartNoun
	}
	t.parts[PRP] = PartPronoun
	t.parts[CD] = PartNumber
	for _, tag := range []Tag{VB, VBD, VBG, VBN, VBP, VBZ} {
		t.parts[tag] = PartVerb
	}
	t.parts[MD] = PartModal
	t.parts[DT] = PartDeterminer
	t.parts[PDT] = PartDeterminer
	t.parts[PRPS] = PartPossessivePronoun
	t.parts[POS] = PartPossessive
	for _, tag := range []Tag{JJ, JJR, JJS} {
		t.parts[tag] = PartAdjective
	}
	for _, tag := range []Tag{RB, RBR, RBS} {
		t.parts[tag] = PartAdverb
	}
	t.parts[IN] = PartPreposition
	t.parts[TO] = PartTo
	t.parts[CC] = PartConjunction
	for _, tag := range []Tag{WDT, WP, WPS, WRB} {
		t.parts[tag] = PartWhWord
	}
	t.parts[EX] = PartExistential
	t.parts[RP] = PartParticle
	t.parts[Comma] = PartComma
	t.parts[Stop] = PartTerminal
	for _, tag := range []Tag{Colon, "``", "''", "-LRB-", "-RRB-", "(", ")", "\"", ";"} {
		t.parts[tag] = PartPunctuation
	}
	for _, tag := range []Tag{SYM, "$", "#", LS} {
		t.parts[tag] = PartSymbol
	}
	t.parts[UH] = PartInterjection
	t.parts[FW] = PartUnknown

	for _, tag := range []Tag{S, SQ, SINV, SBARQ, FRAG} {
		t.whole[tag] = true
	}
	return t
}

func (t *table) lookup(tag Tag) (Part, bool) {
	p, ok := t.parts[tag]
	return p, ok
}

func (t *table) isWhole(tag Tag) bool {
	return t.whole[tag]
}

func constructor(tag Tag, part Part) LeafConstructor {
	return func(word string) *Phrase {
		return NewLeaf(tag, part, word)
	}
}

// Lookup returns the constructor registered for tag, and false when the tag is unknown.
func Lookup(tag Tag) (LeafConstructor, bool) {
	part, ok := defaultTable.lookup(tag)
	if !ok {
		return nil, false
	}
	return constructor(tag, part), true
}

// Classify returns the constructor for tag. Unknown tags still produce a leaf,
// carrying the original tag with PartUnknown, so tokenization is total.
func Classify(tag Tag) LeafConstructor {
	if c, ok := Lookup(tag); ok {
		return c
	}
	return constructor(tag, PartUnknown)
}

// PartOf returns the part a tag classifies to.
func PartOf(tag Tag) Part {
	if p, ok := defaultTable.lookup(tag); ok {
		return p
	}
	return PartUnknown
}

// RegisterLeafTag adds or replaces a leaf tag. Call during init only.
func RegisterLeafTag(tag Tag, part Part) {
	defaultTable.parts[tag] = part
}

// RegisterWholeTag marks a composite tag as a complete utterance. Call during init only.
func RegisterWholeTag(tag Tag) {
	defaultTable.whole[tag] = true
}

// IsTerminalWord reports whether w ends a sentence.
func IsTerminalWord(w string) bool {
	return w == "." || w == "?" || w == "!"
}

// IsInitial reports whether w is a name initial such as the "J" of "J . Smith":
// one uppercase letter other than the pronoun "I". A "." after an initial is an
// abbreviation point, not a sentence end.
func IsInitial(w string) bool {
	if utf8.RuneCountInString(w) != 1 || w == "I" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}

// FromTokens turns tagger output into initial leaves.
func FromTokens(tokens []Token) []*Phrase {
	out := make([]*Phrase, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, Classify(tok.Tag)(tok.Word))
	}
	return out
}
