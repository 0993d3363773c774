package match

import (
	"sort"
	"strings"

	"github.com/kittclouds/parsekit/pkg/lexicon"
	"github.com/kittclouds/parsekit/pkg/phrase"
)

// ============================================================================
// Tag variable
// ============================================================================

// TagVariable matches any phrase whose tag is in its set.
type TagVariable struct {
	name string
	tags map[phrase.Tag]bool
}

// NewTagVariable creates a variable accepting any of tags
func NewTagVariable(name string, tags ...phrase.Tag) *TagVariable {
	set := make(map[phrase.Tag]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return &TagVariable{name: name, tags: set}
}

func (v *TagVariable) Name() string { return v.name }

func (v *TagVariable) IsMatch(p *phrase.Phrase) bool { return v.tags[p.Tag()] }

func (v *TagVariable) String() string {
	tags := make([]string, 0, len(v.tags))
	for t := range v.tags {
		tags = append(tags, string(t))
	}
	sort.Strings(tags)
	return "{" + v.name + ":" + strings.Join(tags, "|") + "}"
}

// ============================================================================
// Lemma variable
// ============================================================================

// LemmaVariable matches a leaf whose base form is lemma: {v:=run} accepts
// "run", "runs", "ran".
type LemmaVariable struct {
	name  string
	lemma string
	morph lexicon.Morphology
}

// NewLemmaVariable creates a lemma variable. morph must not be nil.
func NewLemmaVariable(name, lemma string, morph lexicon.Morphology) *LemmaVariable {
	if morph == nil {
		panic("match: lemma variable needs a morphology")
	}
	return &LemmaVariable{name: name, lemma: strings.ToLower(lemma), morph: morph}
}

func (v *LemmaVariable) Name() string { return v.name }

func (v *LemmaVariable) IsMatch(p *phrase.Phrase) bool {
	if !p.IsLeaf() {
		return false
	}
	w := p.Word()
	return strings.EqualFold(w, v.lemma) || strings.EqualFold(v.morph.BaseForm(w), v.lemma)
}

func (v *LemmaVariable) String() string { return "{" + v.name + ":=" + v.lemma + "}" }

// ============================================================================
// Synonym variable
// ============================================================================

// SynonymVariable matches a leaf that is word or one of its synonyms.
type SynonymVariable struct {
	name  string
	word  string
	part  phrase.Part
	words map[string]struct{}
}

// NewSynonymVariable resolves the synonym set once. part restricts both the
// lookup and the matched leaf; PartNone accepts any part.
func NewSynonymVariable(name, word string, part phrase.Part, syn lexicon.Synonyms) *SynonymVariable {
	if syn == nil {
		panic("match: synonym variable needs a synonym service")
	}
	word = strings.ToLower(word)
	words := map[string]struct{}{word: {}}
	for w := range syn.Synonyms(word, part) {
		words[strings.ToLower(w)] = struct{}{}
	}
	return &SynonymVariable{name: name, word: word, part: part, words: words}
}

func (v *SynonymVariable) Name() string { return v.name }

func (v *SynonymVariable) IsMatch(p *phrase.Phrase) bool {
	if !p.IsLeaf() {
		return false
	}
	if v.part != phrase.PartNone && p.Part() != v.part {
		return false
	}
	_, ok := v.words[strings.ToLower(p.Word())]
	return ok
}

func (v *SynonymVariable) String() string { return "{" + v.name + ":~" + v.word + "}" }

// ============================================================================
// Progressive agent
// ============================================================================

// Progressive is an Agent driven by a decision function over the span so far.
type Progressive struct {
	name   string
	decide func(span []*phrase.Phrase) Decision
}

// NewProgressive creates an agent binding its accepted span under name.
func NewProgressive(name string, decide func(span []*phrase.Phrase) Decision) *Progressive {
	if decide == nil {
		panic("match: progressive agent needs a decision function")
	}
	return &Progressive{name: name, decide: decide}
}

func (a *Progressive) Name() string { return a.name }

func (a *Progressive) Decide(span []*phrase.Phrase) Decision { return a.decide(span) }

func (a *Progressive) String() string { return "@" + a.name }

// UntilTag returns a decision function that stays Undetermined until the span
// holds a phrase tagged tag, accepts from then on, and rejects spans that run
// into a sentence terminal first.
func UntilTag(tag phrase.Tag) func([]*phrase.Phrase) Decision {
	return func(span []*phrase.Phrase) Decision {
		last := span[len(span)-1]
		if last.IsLeaf() && last.Part() == phrase.PartTerminal {
			return Reject
		}
		for _, p := range span {
			if p.Tag() == tag {
				return Accept
			}
		}
		return Undetermined
	}
}

// AnyUntilTerminal accepts every non-empty span that contains no sentence terminal.
func AnyUntilTerminal(span []*phrase.Phrase) Decision {
	for _, p := range span {
		if p.IsLeaf() && p.Part() == phrase.PartTerminal {
			return Reject
		}
	}
	return Accept
}
