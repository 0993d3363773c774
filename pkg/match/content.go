// Package match matches phrase trees against word patterns and produces new
// phrases from templates. Search runs as continuation-passing codelets on a
// coderack, so alternative branches (star extension, optional blocks) interleave
// without native recursion.
package match

import (
	"strings"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

// ============================================================================
// Content alphabet
// ============================================================================

// Content is one item of a pattern or template. The matcher recognizes the types
// in this file plus any Variable or Agent; anything else fails the branch.
type Content interface {
	String() string
}

// Literal matches one leaf whose word compares equal under the WordComparer.
type Literal string

func (l Literal) String() string { return string(l) }

// Star consumes zero or more leaves and binds them under its key.
type Star struct {
	Name string
}

// Key is the binding name: "*" or "*name".
func (s Star) Key() string { return "*" + s.Name }

func (s Star) String() string { return s.Key() }

// Placeholder consumes exactly one leaf.
type Placeholder struct {
	Name string
}

// Key is the binding name: "_" or "_name".
func (p Placeholder) Key() string { return "_" + p.Name }

func (p Placeholder) String() string { return p.Key() }

// Optional is a block tried first with, then without its contents.
type Optional struct {
	Contents []Content
}

func (o Optional) String() string {
	return "[ " + Render(o.Contents) + " ]"
}

// End only matches when the input is exhausted.
type End struct{}

func (End) String() string { return "$" }

// Ref is a template-side reference to a binding. Name is the binding key.
type Ref struct {
	Name string
}

func (r Ref) String() string {
	if strings.HasPrefix(r.Name, "*") || strings.HasPrefix(r.Name, "_") {
		return r.Name
	}
	return "{" + r.Name + "}"
}

// Variable matches a single phrase by predicate and binds it under Name.
type Variable interface {
	Content
	Name() string
	IsMatch(p *phrase.Phrase) bool
}

// Decision is a three-valued match verdict.
type Decision int

const (
	Undetermined Decision = iota
	Accept
	Reject
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "undetermined"
	}
}

// Agent judges a growing span of top-level input phrases. The matcher extends
// the span one phrase at a time while the verdict is Undetermined, and keeps
// extending after an Accept whose continuation later fails.
type Agent interface {
	Content
	Name() string
	Decide(span []*phrase.Phrase) Decision
}

// Render joins contents with single spaces.
func Render(contents []Content) string {
	parts := make([]string, len(contents))
	for i, c := range contents {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Words builds a pattern of literals.
func Words(words ...string) []Content {
	out := make([]Content, len(words))
	for i, w := range words {
		out[i] = Literal(w)
	}
	return out
}
