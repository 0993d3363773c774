// Package phrase implements the constituent tree node shared by the parser and the matcher.
// A Phrase is either a leaf (one tagged word) or a composite (a tag over ordered children).
package phrase

import (
	"strings"
)

// ============================================================================
// Tag
// ============================================================================

// Tag is a grammatical category label. The set is open: callers may register new tags.
type Tag string

// Composite tags produced by the grammar.
const (
	NP     Tag = "NP"
	VP     Tag = "VP"
	PP     Tag = "PP"
	ADJP   Tag = "ADJP"
	ADVP   Tag = "ADVP"
	S      Tag = "S"
	SQ     Tag = "SQ"
	SINV   Tag = "SINV"
	SBAR   Tag = "SBAR"
	SBARQ  Tag = "SBARQ"
	WHNP   Tag = "WHNP"
	WHADVP Tag = "WHADVP"
	PRN    Tag = "PRN"
	FRAG   Tag = "FRAG"
	PARA   Tag = "PARA"
)

// Penn Treebank leaf tags.
const (
	CC    Tag = "CC"
	CD    Tag = "CD"
	DT    Tag = "DT"
	EX    Tag = "EX"
	FW    Tag = "FW"
	IN    Tag = "IN"
	JJ    Tag = "JJ"
	JJR   Tag = "JJR"
	JJS   Tag = "JJS"
	LS    Tag = "LS"
	MD    Tag = "MD"
	NN    Tag = "NN"
	NNS   Tag = "NNS"
	NNP   Tag = "NNP"
	NNPS  Tag = "NNPS"
	PDT   Tag = "PDT"
	POS   Tag = "POS"
	PRP   Tag = "PRP"
	PRPS  Tag = "PRP$"
	RB    Tag = "RB"
	RBR   Tag = "RBR"
	RBS   Tag = "RBS"
	RP    Tag = "RP"
	SYM   Tag = "SYM"
	TO    Tag = "TO"
	UH    Tag = "UH"
	VB    Tag = "VB"
	VBD   Tag = "VBD"
	VBG   Tag = "VBG"
	VBN   Tag = "VBN"
	VBP   Tag = "VBP"
	VBZ   Tag = "VBZ"
	WDT   Tag = "WDT"
	WP    Tag = "WP"
	WPS   Tag = "WP$"
	WRB   Tag = "WRB"
	Comma Tag = ","
	Stop  Tag = "."
	Colon Tag = ":"
)

// ============================================================================
// Part
// ============================================================================

// Part is the word class of a leaf, derived from its tag by the classification table.
type Part int

const (
	PartNone Part = iota // composites
	PartUnknown
	PartNoun
	PartPronoun
	PartNumber
	PartVerb
	PartModal
	PartDeterminer
	PartPossessivePronoun
	PartPossessive
	PartAdjective
	PartAdverb
	PartPreposition
	PartTo
	PartConjunction
	PartWhWord
	PartExistential
	PartParticle
	PartComma
	PartTerminal
	PartPunctuation
	PartSymbol
	PartInterjection
)

var partNames = [...]string{
	PartNone:              "None",
	PartUnknown:           "Unknown",
	PartNoun:              "Noun",
	PartPronoun:           "Pronoun",
	PartNumber:            "Number",
	PartVerb:              "Verb",
	PartModal:             "Modal",
	PartDeterminer:        "Determiner",
	PartPossessivePronoun: "PossessivePronoun",
	PartPossessive:        "Possessive",
	PartAdjective:         "Adjective",
	PartAdverb:            "Adverb",
	PartPreposition:       "Preposition",
	PartTo:                "To",
	PartConjunction:       "Conjunction",
	PartWhWord:            "WhWord",
	PartExistential:       "Existential",
	PartParticle:          "Particle",
	PartComma:             "Comma",
	PartTerminal:          "Terminal",
	PartPunctuation:       "Punctuation",
	PartSymbol:            "Symbol",
	PartInterjection:      "Interjection",
}

// String returns a readable name
func (p Part) String() string {
	if p < 0 || int(p) >= len(partNames) {
		return "Unknown"
	}
	return partNames[p]
}

// IsNominal returns true if the part heads a noun phrase
func (p Part) IsNominal() bool {
	return p == PartNoun || p == PartPronoun || p == PartNumber
}

// IsVerbal returns true if the part heads a verb phrase
func (p Part) IsVerbal() bool {
	return p == PartVerb || p == PartModal
}

// ============================================================================
// Phrase
// ============================================================================

// Phrase is a node in the constituent tree. Identity is the pointer: the engine
// tracks phrases by address, so a Phrase must never be copied by value.
type Phrase struct {
	tag      Tag
	part     Part
	word     string
	children []*Phrase
	leaf     bool
}

// NewLeaf creates a leaf phrase for one tagged word.
func NewLeaf(tag Tag, part Part, word string) *Phrase {
	return &Phrase{tag: tag, part: part, word: word, leaf: true}
}

// NewComposite creates a composite over children. It panics on an empty child list,
// since a childless composite has no surface text.
func NewComposite(tag Tag, children ...*Phrase) *Phrase {
	if len(children) == 0 {
		panic("phrase: composite " + string(tag) + " needs at least one child")
	}
	kids := make([]*Phrase, len(children))
	copy(kids, children)
	return &Phrase{tag: tag, part: PartNone, children: kids}
}

// Tag returns the category label
func (p *Phrase) Tag() Tag { return p.tag }

// Part returns the word class of a leaf, PartNone for composites
func (p *Phrase) Part() Part { return p.part }

// IsLeaf reports whether p carries a word
func (p *Phrase) IsLeaf() bool { return p.leaf }

// Word returns the literal word of a leaf, "" for composites
func (p *Phrase) Word() string { return p.word }

// Children returns the child list. Callers must not modify it.
func (p *Phrase) Children() []*Phrase { return p.children }

// Len returns the number of children
func (p *Phrase) Len() int { return len(p.children) }

// Child returns the i-th child or nil
func (p *Phrase) Child(i int) *Phrase {
	if i < 0 || i >= len(p.children) {
		return nil
	}
	return p.children[i]
}

// First returns the first child or nil
func (p *Phrase) First() *Phrase { return p.Child(0) }

// Last returns the last child or nil
func (p *Phrase) Last() *Phrase { return p.Child(len(p.children) - 1) }

// IsWhole reports whether p is a complete utterance (sentence, question, fragment).
func (p *Phrase) IsWhole() bool {
	return !p.leaf && defaultTable.isWhole(p.tag)
}

// Words returns the leaf words under p in surface order.
func (p *Phrase) Words() []string {
	var out []string
	p.walkLeaves(func(l *Phrase) { out = append(out, l.word) })
	return out
}

// Leaves returns the leaf phrases under p in surface order.
func (p *Phrase) Leaves() []*Phrase {
	var out []*Phrase
	p.walkLeaves(func(l *Phrase) { out = append(out, l) })
	return out
}

// LastWord returns the final leaf word, "" if there is none.
func (p *Phrase) LastWord() string {
	n := p
	for !n.leaf {
		if len(n.children) == 0 {
			return ""
		}
		n = n.children[len(n.children)-1]
	}
	return n.word
}

// Text reconstructs the surface form by joining words with single spaces.
func (p *Phrase) Text() string {
	return strings.Join(p.Words(), " ")
}

func (p *Phrase) walkLeaves(fn func(*Phrase)) {
	if p.leaf {
		fn(p)
		return
	}
	for _, c := range p.children {
		c.walkLeaves(fn)
	}
}

// String renders p as a bracketed s-expression: "(TAG child ...)" for composites,
// "word/TAG" for leaves.
func (p *Phrase) String() string {
	var sb strings.Builder
	p.render(&sb)
	return sb.String()
}

func (p *Phrase) render(sb *strings.Builder) {
	if p.leaf {
		sb.WriteString(p.word)
		sb.WriteByte('/')
		sb.WriteString(string(p.tag))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(string(p.tag))
	for _, c := range p.children {
		sb.WriteByte(' ')
		c.render(sb)
	}
	sb.WriteByte(')')
}

// ============================================================================
// Child surgery (engine only)
// ============================================================================

// AppendChildren adds children at the end. Ownership of kids moves to p.
func (p *Phrase) AppendChildren(kids ...*Phrase) {
	p.mustComposite()
	p.children = append(p.children, kids...)
}

// PrependChildren adds children at the front, keeping their order.
func (p *Phrase) PrependChildren(kids ...*Phrase) {
	p.mustComposite()
	out := make([]*Phrase, 0, len(kids)+len(p.children))
	out = append(out, kids...)
	p.children = append(out, p.children...)
}

// TakeChildren empties p and returns its former children.
func (p *Phrase) TakeChildren() []*Phrase {
	kids := p.children
	p.children = nil
	return kids
}

// SetChildren replaces the child list.
func (p *Phrase) SetChildren(kids []*Phrase) {
	p.mustComposite()
	p.children = kids
}

func (p *Phrase) mustComposite() {
	if p.leaf {
		panic("phrase: cannot attach children to leaf " + p.word + "/" + string(p.tag))
	}
}
