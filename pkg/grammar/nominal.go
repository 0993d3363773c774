package grammar

import (
	"strings"

	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/sentence"
)

// ============================================================================
// Noun leaf
// ============================================================================

// nounLeaf joins a neighbouring noun compound or promotes itself to NP.
type nounLeaf struct{}

func (nounLeaf) Precedence() int { return PrecNoun }

func (nounLeaf) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	if p.Part() != phrase.PartPronoun {
		// "dog [house]": prefix the compound already built to the right
		if next := s.After(p); isTag(next, phrase.NP) && isNounLeaf(next.First()) {
			s.AbsorbPrevious(next)
			return true
		}
		if prev := s.Before(p); isTag(prev, phrase.NP) && isNounLeaf(prev.Last()) {
			s.AbsorbNext(prev)
			return true
		}
	}
	s.Combine(phrase.NP, p)
	return true
}

// ============================================================================
// Wh leaf
// ============================================================================

// whLeaf promotes who/which/that to WHNP and where/when/why/how to WHADVP.
// "whose" takes the following noun phrase with it.
type whLeaf struct{}

func (whLeaf) Precedence() int { return PrecWh }

func (whLeaf) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	switch p.Tag() {
	case phrase.WRB:
		s.Combine(phrase.WHADVP, p)
	case phrase.WPS:
		if next := s.After(p); isTag(next, phrase.NP) {
			s.Combine(phrase.WHNP, p, next)
		} else {
			s.Combine(phrase.WHNP, p)
		}
	default:
		s.Combine(phrase.WHNP, p)
	}
	return true
}

// ============================================================================
// Adjective leaf
// ============================================================================

// adjectiveLeaf fuses an intensifying adverb: "very old" becomes ADJP.
type adjectiveLeaf struct{}

func (adjectiveLeaf) Precedence() int { return PrecAdjective }

func (adjectiveLeaf) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	if prev := s.Before(p); isLeaf(prev, phrase.PartAdverb) {
		s.Combine(phrase.ADJP, prev, p)
		return true
	}
	return false
}

// ============================================================================
// Noun phrase
// ============================================================================

type nounPhrase struct{}

func (nounPhrase) Precedence() int { return PrecNounPhrase }

func (nounPhrase) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	next := s.After(p)

	// "J ." is an initial, not a sentence end
	if isTerminal(next) && next.Word() == "." && phrase.IsInitial(p.LastWord()) {
		s.AbsorbNext(p)
		return true
	}

	prev := s.Before(p)
	switch {
	case isLeaf(prev, phrase.PartDeterminer, phrase.PartPossessivePronoun, phrase.PartNumber, phrase.PartAdjective):
		s.AbsorbPrevious(p)
		return true
	case isTag(prev, phrase.ADJP):
		s.AbsorbPrevious(p)
		return true
	case isTag(prev, phrase.NP) && isLeaf(prev.Last(), phrase.PartPossessive):
		s.AbsorbPrevious(p)
		return true
	case isTag(prev, phrase.NP) && endsWithInitial(prev) && isNounLeaf(p.First()):
		// "(J .) Smith"
		s.MergePrevious(p)
		return true
	}

	if isLeaf(next, phrase.PartPossessive) {
		s.AbsorbNext(p)
		return true
	}

	switch {
	case isTag(next, phrase.PP) && isLeaf(next.First(), phrase.PartPreposition) && next.First().Word() == "of":
		s.AbsorbNext(p)
		return true
	case isTag(next, phrase.PP) && isVerbal(s.After(next)):
		// "the man [in the park] ran": the verb closes the subject
		s.AbsorbNext(p)
		return true
	case isLeaf(next, phrase.PartConjunction) && isTag(s.After(next), phrase.NP):
		s.Combine(phrase.NP, p, next, s.After(next))
		return true
	case isWhClause(next):
		s.AbsorbNext(p)
		return true
	case isTag(next, phrase.S) && !terminated(next) && isTag(s.After(next), phrase.VP):
		// reduced relative: "the dog [I saw] ran"
		s.AbsorbNext(p)
		return true
	}
	return false
}

// endsWithInitial reports whether np closes on an initial and its point: "J .".
func endsWithInitial(np *phrase.Phrase) bool {
	leaves := np.Leaves()
	n := len(leaves)
	return n >= 2 && isTerminal(leaves[n-1]) && leaves[n-1].Word() == "." && phrase.IsInitial(leaves[n-2].Word())
}

// ============================================================================
// Preposition leaf
// ============================================================================

// prepositionLeaf builds PP from IN/TO + NP, and SBAR from a subordinating IN + S.
type prepositionLeaf struct{}

func (prepositionLeaf) Precedence() int { return PrecPreposition }

func (prepositionLeaf) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	next := s.After(p)
	switch {
	case isTag(next, phrase.NP) && isSubordinator(p) && isVerbal(s.After(next)):
		// "because [he] ran": wait for the clause
		return false
	case isTag(next, phrase.NP):
		s.Combine(phrase.PP, p, next)
		return true
	case p.Tag() == phrase.IN && isTag(next, phrase.S) && !terminated(next):
		s.Combine(phrase.SBAR, p, next)
		return true
	case p.Tag() == phrase.IN && isTag(next, phrase.VP) && next.First().Tag() == phrase.VBG:
		s.Combine(phrase.PP, p, next)
		return true
	}
	return false
}

var subordinators = map[string]bool{
	"because": true, "although": true, "though": true, "if": true, "unless": true,
	"while": true, "whereas": true, "whether": true, "that": true, "since": true,
	"until": true, "before": true, "after": true, "once": true,
}

func isSubordinator(p *phrase.Phrase) bool {
	return p.Tag() == phrase.IN && subordinators[strings.ToLower(p.Word())]
}
