package sentence

import (
	"fmt"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

// ============================================================================
// Positional queries
// ============================================================================

// IndexOf returns p's position among pending phrases, or -1.
func (s *Sentence) IndexOf(p *phrase.Phrase) int {
	for i, q := range s.pending {
		if q == p {
			return i
		}
	}
	return -1
}

// At returns the pending phrase at i, or nil when i is out of range.
func (s *Sentence) At(i int) *phrase.Phrase {
	if i < 0 || i >= len(s.pending) {
		return nil
	}
	return s.pending[i]
}

// Before returns the pending phrase left of p, or nil.
func (s *Sentence) Before(p *phrase.Phrase) *phrase.Phrase {
	return s.At(s.mustIndex(p) - 1)
}

// After returns the pending phrase right of p, or nil.
func (s *Sentence) After(p *phrase.Phrase) *phrase.Phrase {
	return s.At(s.mustIndex(p) + 1)
}

// IsFirst reports whether p is the leftmost pending phrase.
func (s *Sentence) IsFirst(p *phrase.Phrase) bool {
	return len(s.pending) > 0 && s.pending[0] == p
}

func (s *Sentence) mustIndex(p *phrase.Phrase) int {
	i := s.IndexOf(p)
	if i < 0 {
		panic(fmt.Sprintf("sentence: %s is not pending", p))
	}
	return i
}

func (s *Sentence) remove(i int) {
	s.pending = append(s.pending[:i], s.pending[i+1:]...)
}

// ============================================================================
// Structural edits
// ============================================================================

// MergeNext moves the children of p's right neighbour into p and drops the neighbour.
// A leaf neighbour is moved whole.
func (s *Sentence) MergeNext(p *phrase.Phrase) {
	i := s.mustIndex(p)
	next := s.mustAt(i + 1)
	p.AppendChildren(childrenOf(next)...)
	s.Forget(next)
	s.remove(i + 1)
}

// MergePrevious moves the children of p's left neighbour to the front of p.
func (s *Sentence) MergePrevious(p *phrase.Phrase) {
	i := s.mustIndex(p)
	prev := s.mustAt(i - 1)
	p.PrependChildren(childrenOf(prev)...)
	s.Forget(prev)
	s.remove(i - 1)
}

// AbsorbNext appends p's right neighbour as p's last child.
func (s *Sentence) AbsorbNext(p *phrase.Phrase) {
	i := s.mustIndex(p)
	next := s.mustAt(i + 1)
	p.AppendChildren(next)
	s.remove(i + 1)
}

// AbsorbPrevious prepends p's left neighbour as p's first child.
func (s *Sentence) AbsorbPrevious(p *phrase.Phrase) {
	i := s.mustIndex(p)
	prev := s.mustAt(i - 1)
	p.PrependChildren(prev)
	s.remove(i - 1)
}

// AbsorbNextInto attaches the right neighbour of owner as the last child of target,
// which must be owner or one of its composite descendants.
func (s *Sentence) AbsorbNextInto(owner, target *phrase.Phrase) {
	if target != owner && owner.ParentOf(target) == nil {
		panic(fmt.Sprintf("sentence: %s is not inside %s", target, owner))
	}
	i := s.mustIndex(owner)
	next := s.mustAt(i + 1)
	target.AppendChildren(next)
	s.remove(i + 1)
}

// CoordinateInto turns target, owner or a descendant of owner, into
// (TAG (TAG old children) conj right), consuming the two phrases after owner.
func (s *Sentence) CoordinateInto(owner, target *phrase.Phrase) {
	if target != owner && owner.ParentOf(target) == nil {
		panic(fmt.Sprintf("sentence: %s is not inside %s", target, owner))
	}
	i := s.mustIndex(owner)
	conj := s.mustAt(i + 1)
	right := s.mustAt(i + 2)
	inner := phrase.NewComposite(target.Tag(), target.TakeChildren()...)
	target.SetChildren([]*phrase.Phrase{inner, conj, right})
	s.pending = append(s.pending[:i+1], s.pending[i+3:]...)
}

// Combine replaces the contiguous pending run with a new composite of the tag whose
// children are the run, in order. It returns the new composite.
func (s *Sentence) Combine(tag phrase.Tag, run ...*phrase.Phrase) *phrase.Phrase {
	if len(run) == 0 {
		panic("sentence: Combine needs at least one phrase")
	}
	start := s.mustIndex(run[0])
	for k, p := range run {
		if s.At(start+k) != p {
			panic(fmt.Sprintf("sentence: Combine run is not contiguous at %s", p))
		}
	}
	c := phrase.NewComposite(tag, run...)
	rest := append([]*phrase.Phrase{c}, s.pending[start+len(run):]...)
	s.pending = append(s.pending[:start], rest...)
	return c
}

// Separate dissolves composite p, splicing its children into its place.
func (s *Sentence) Separate(p *phrase.Phrase) {
	if p.IsLeaf() {
		panic(fmt.Sprintf("sentence: cannot separate leaf %s", p))
	}
	i := s.mustIndex(p)
	kids := p.TakeChildren()
	rest := append(append([]*phrase.Phrase(nil), kids...), s.pending[i+1:]...)
	s.pending = append(s.pending[:i], rest...)
	s.Forget(p)
}

// AddFirstToCompletes moves the leftmost pending phrase to the completed list and
// clears the attempt memory of the remaining phrases whose tags are reset tags,
// since closing a clause can make a rejected attachment valid again.
func (s *Sentence) AddFirstToCompletes() {
	if len(s.pending) == 0 {
		return
	}
	first := s.pending[0]
	s.completed = append(s.completed, first)
	s.pending = s.pending[1:]
	s.Forget(first)
	for _, p := range s.pending {
		if s.resets[p.Tag()] {
			s.Forget(p)
		}
	}
}

func (s *Sentence) mustAt(i int) *phrase.Phrase {
	p := s.At(i)
	if p == nil {
		panic(fmt.Sprintf("sentence: no pending phrase at %d", i))
	}
	return p
}

func childrenOf(p *phrase.Phrase) []*phrase.Phrase {
	if p.IsLeaf() {
		return []*phrase.Phrase{p}
	}
	return p.TakeChildren()
}
