package grammar

import (
	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/sentence"
)

// coordinable lists the tags a conjunction may fuse into one phrase of the same tag.
var coordinable = map[phrase.Tag]bool{
	phrase.NP:   true,
	phrase.VP:   true,
	phrase.PP:   true,
	phrase.S:    true,
	phrase.SQ:   true,
	phrase.ADJP: true,
	phrase.ADVP: true,
}

// ============================================================================
// Comma
// ============================================================================

// comma extracts a wh-parenthetical: ", which barked ," (3-part) or ", which
// barked ." (2-part, the terminal stays outside). It also closes a list whose
// last pair was already coordinated: "red , (green and blue)".
type comma struct{}

func (comma) Precedence() int { return PrecComma }

func (comma) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	next := s.After(p)
	if next == nil {
		return false
	}

	if isWhClause(next) {
		after := s.After(next)
		switch {
		case isLeaf(after, phrase.PartComma):
			s.Combine(phrase.PRN, p, next, after)
			return true
		case after == nil || isTerminal(after):
			s.Combine(phrase.PRN, p, next)
			return true
		}
		return false
	}

	prev := s.Before(p)
	if prev != nil && !prev.IsLeaf() && prev.Tag() == next.Tag() && coordinable[next.Tag()] && hasConjunction(next) {
		s.Combine(next.Tag(), prev, p, next)
		return true
	}
	return false
}

func hasConjunction(p *phrase.Phrase) bool {
	for _, c := range p.Children() {
		if isLeaf(c, phrase.PartConjunction) {
			return true
		}
	}
	return false
}

// ============================================================================
// Parenthetical
// ============================================================================

// parenthetical offers itself to the deepest rightmost noun phrase of the phrase
// before it. The search always descends into the last child and takes the first
// NP it meets, so the outermost candidate wins.
type parenthetical struct{}

func (parenthetical) Precedence() int { return PrecParenthesis }

func (parenthetical) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	prev := s.Before(p)
	if prev == nil || prev.IsLeaf() {
		return false
	}
	np := prev.RightmostDescendant(phrase.NP)
	if np == nil {
		return false
	}
	s.AbsorbNextInto(prev, np)
	return true
}

// ============================================================================
// Clause
// ============================================================================

type clause struct{}

func (clause) Precedence() int { return PrecClause }

func (clause) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	prev, next := s.Before(p), s.After(p)

	if isTerminal(next) && !terminated(p) {
		s.AbsorbNext(p)
		return true
	}

	// trailing modifier: "went (in and the house)"
	if !terminated(p) && (isTag(next, phrase.PP, phrase.ADVP) || isLeaf(next, phrase.PartAdverb)) {
		if vp := p.RightmostDescendant(phrase.VP); vp != nil {
			s.AbsorbNextInto(p, vp)
		} else {
			s.AbsorbNext(p)
		}
		return true
	}

	// relative clause separated from its noun by the clause boundary
	if isWhClause(next) && !terminated(p) {
		if np := p.RightmostDescendant(phrase.NP); np != nil {
			s.AbsorbNextInto(p, np)
		} else {
			s.AbsorbNext(p)
		}
		return true
	}

	// introductory material: "In the park , the dog ran"
	if isLeaf(prev, phrase.PartComma) && isIntroductory(s.Before(prev)) && !isLeaf(p.First(), phrase.PartComma) {
		s.AbsorbPrevious(p)
		return true
	}
	if isIntroductory(prev) {
		s.AbsorbPrevious(p)
		return true
	}

	if s.IsFirst(p) && terminated(p) && s.Len() > 1 {
		s.AddFirstToCompletes()
		return true
	}

	// a stranded clause at the front with a verb phrase after it re-exposes its
	// parts once so they can attach differently
	if s.IsFirst(p) && !terminated(p) && isTag(next, phrase.VP) {
		key := sentence.Attempt{Neighbor: next, Target: phrase.FRAG, Width: width(p)}
		if s.Attempted(p, key) {
			return false
		}
		s.Remember(p, key)
		s.Separate(p)
		return true
	}
	return false
}

func isIntroductory(p *phrase.Phrase) bool {
	return isTag(p, phrase.PP, phrase.ADVP, phrase.SBAR) ||
		isLeaf(p, phrase.PartAdverb, phrase.PartInterjection)
}

// ============================================================================
// Conjunction
// ============================================================================

// conjunction fuses same-tag neighbours, reads "in and the house" as a PP with a
// dropped preposition object, and otherwise coordinates the right neighbour with
// the rightmost phrase of the same tag inside the left neighbour.
type conjunction struct{}

func (conjunction) Precedence() int { return PrecConjunction }

func (conjunction) Transform(s *sentence.Sentence, p *phrase.Phrase) bool {
	prev, next := s.Before(p), s.After(p)
	if prev == nil || next == nil {
		return false
	}

	if !prev.IsLeaf() && !next.IsLeaf() && prev.Tag() == next.Tag() && coordinable[prev.Tag()] {
		s.Combine(prev.Tag(), prev, p, next)
		return true
	}
	if isLeaf(prev, phrase.PartAdjective) && isLeaf(next, phrase.PartAdjective) {
		s.Combine(phrase.ADJP, prev, p, next)
		return true
	}
	if isLeaf(prev, phrase.PartAdverb) && isLeaf(next, phrase.PartAdverb) {
		s.Combine(phrase.ADVP, prev, p, next)
		return true
	}
	if isLeaf(prev, phrase.PartPreposition) && isTag(next, phrase.NP) {
		s.Combine(phrase.PP, prev, p, next)
		return true
	}
	// "X , and Y": the comma belongs to the coordination
	if isLeaf(prev, phrase.PartComma) && !next.IsLeaf() && coordinable[next.Tag()] {
		if first := s.Before(prev); first != nil && !first.IsLeaf() && first.Tag() == next.Tag() {
			s.Combine(next.Tag(), first, prev, p, next)
			return true
		}
	}
	if !prev.IsLeaf() && !next.IsLeaf() && coordinable[next.Tag()] {
		if target := prev.RightmostDescendant(next.Tag()); target != nil {
			s.CoordinateInto(prev, target)
			return true
		}
	}
	return false
}
