package phrase

import (
	"fmt"
	"strings"
)

// Walk visits p and its descendants in pre-order. Returning false from fn skips
// the children of the visited node.
func (p *Phrase) Walk(fn func(*Phrase) bool) {
	if !fn(p) {
		return
	}
	for _, c := range p.children {
		c.Walk(fn)
	}
}

// FindDescendant returns the first pre-order descendant of p (p excluded) with the tag.
func (p *Phrase) FindDescendant(tag Tag) *Phrase {
	for _, c := range p.children {
		if c.tag == tag {
			return c
		}
		if d := c.FindDescendant(tag); d != nil {
			return d
		}
	}
	return nil
}

// RightmostDescendant walks down through last children starting at p itself and
// returns the first (outermost) phrase carrying the tag.
func (p *Phrase) RightmostDescendant(tag Tag) *Phrase {
	for n := p; n != nil; n = n.Last() {
		if n.tag == tag && !n.leaf {
			return n
		}
	}
	return nil
}

// ParentOf returns the direct parent of target below p, or nil.
func (p *Phrase) ParentOf(target *Phrase) *Phrase {
	for _, c := range p.children {
		if c == target {
			return p
		}
		if found := c.ParentOf(target); found != nil {
			return found
		}
	}
	return nil
}

// Decompose finds an ordered cut through p whose tags equal tags, expanding
// composites where needed. p itself counts as a one-element cut.
func (p *Phrase) Decompose(tags ...Tag) ([]*Phrase, bool) {
	return decompose([]*Phrase{p}, tags, nil)
}

func decompose(frontier []*Phrase, tags []Tag, acc []*Phrase) ([]*Phrase, bool) {
	if len(frontier) == 0 {
		if len(tags) == 0 {
			return acc, true
		}
		return nil, false
	}
	if len(tags) == 0 {
		return nil, false
	}
	head := frontier[0]
	if head.tag == tags[0] {
		if out, ok := decompose(frontier[1:], tags[1:], append(acc[:len(acc):len(acc)], head)); ok {
			return out, true
		}
	}
	if head.leaf {
		return nil, false
	}
	expanded := make([]*Phrase, 0, len(head.children)+len(frontier)-1)
	expanded = append(expanded, head.children...)
	expanded = append(expanded, frontier[1:]...)
	return decompose(expanded, tags, acc)
}

// Clone returns a deep copy of p sharing no nodes with it.
func (p *Phrase) Clone() *Phrase {
	if p.leaf {
		return NewLeaf(p.tag, p.part, p.word)
	}
	kids := make([]*Phrase, len(p.children))
	for i, c := range p.children {
		kids[i] = c.Clone()
	}
	return &Phrase{tag: p.tag, part: p.part, children: kids}
}

// Pretty provides an indented tree view for debugging.
func (p *Phrase) Pretty() string {
	var sb strings.Builder
	p.printRecursive(&sb, 0)
	return sb.String()
}

func (p *Phrase) printRecursive(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	if p.leaf {
		fmt.Fprintf(sb, "%s%s %q\n", indent, p.tag, p.word)
		return
	}
	fmt.Fprintf(sb, "%s%s\n", indent, p.tag)
	for _, c := range p.children {
		c.printRecursive(sb, depth+1)
	}
}
