package grammar

import (
	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/sentence"
)

// ============================================================================
// Verb leaf
// ============================================================================

// verbLeaf promotes every verb and modal to its own VP; auxiliary chains are
// nested later by the VP rule: (VP has (VP been (VP running))).
type verbLeaf struct{}

func (verbLeaf) Precedence() int { return PrecVerb }

func (verbLeaf) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	s.Combine(phrase.VP, p)
	return true
}

// ============================================================================
// Verb phrase
// ============================================================================

type verbPhrase struct{}

func (verbPhrase) Precedence() int { return PrecVerbPhrase }

func (r verbPhrase) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	prev, next := s.Before(p), s.After(p)

	// "did [the dog run]" opens a question
	if isAuxVP(p) && isTag(next, phrase.S) && !terminated(next) &&
		(prev == nil || isTag(prev, phrase.WHNP, phrase.WHADVP)) {
		s.Combine(phrase.SQ, p, next)
		return true
	}

	var after *phrase.Phrase
	if next != nil {
		after = s.After(next)
	}
	if r.absorbsNext(p, next, after) {
		s.AbsorbNext(p)
		return true
	}

	if isLeaf(prev, phrase.PartAdverb, phrase.PartTo) {
		s.AbsorbPrevious(p)
		return true
	}

	if isTag(prev, phrase.NP) || isLeaf(prev, phrase.PartExistential) {
		key := sentence.Attempt{Neighbor: prev, Target: phrase.S, Width: width(prev, p)}
		if s.Attempted(p, key) {
			return false
		}
		s.Remember(p, key)
		s.Combine(phrase.S, prev, p)
		return true
	}
	return false
}

// absorbsNext decides whether the right neighbour belongs inside the VP.
// after is the phrase following next and is used only to keep a subject NP out.
func (verbPhrase) absorbsNext(p, next, after *phrase.Phrase) bool {
	if next == nil {
		return false
	}
	if next.IsLeaf() {
		return isLeaf(next, phrase.PartAdverb, phrase.PartParticle, phrase.PartAdjective)
	}
	switch next.Tag() {
	case phrase.VP:
		// auxiliary chain, or an infinitive complement
		return isAuxVP(p) || isLeaf(next.First(), phrase.PartTo)
	case phrase.NP:
		// "saw [the dog] run": the NP is the next clause's subject
		return !isTag(after, phrase.VP)
	case phrase.PP, phrase.ADJP, phrase.ADVP, phrase.SBAR:
		return true
	case phrase.S:
		return !terminated(next)
	}
	return false
}

// ============================================================================
// Wh phrase
// ============================================================================

// whPhrase opens a relative or embedded clause, or a wh-question.
type whPhrase struct{}

func (whPhrase) Precedence() int { return PrecWhPhrase }

func (whPhrase) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	next := s.After(p)
	switch {
	case isTag(next, phrase.VP) && s.IsFirst(p) && isQuestionMark(s.After(next)):
		// "Who ran ?": the verb phrase is the question body
		s.Combine(phrase.SQ, next)
		return true
	case isTag(next, phrase.SQ):
		s.Combine(phrase.SBARQ, p, next)
		return true
	case isTag(next, phrase.VP):
		s.Combine(phrase.SBAR, p, next)
		return true
	case isTag(next, phrase.S) && !terminated(next):
		s.Combine(phrase.SBAR, p, next)
		return true
	}
	return false
}

func isQuestionMark(p *phrase.Phrase) bool {
	return isTerminal(p) && p.Word() == "?"
}
