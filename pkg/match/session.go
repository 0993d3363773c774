package match

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kittclouds/parsekit/pkg/coderack"
	"github.com/kittclouds/parsekit/pkg/phrase"
)

// Succeed receives the bindings of a completed match.
type Succeed func(ctx *Context)

// Fail receives the reason a branch gave up.
type Fail func(reason string)

// session is one single-threaded match attempt with its own rack.
type session struct {
	id     string
	m      *Matcher
	src    *Source
	logger *zap.Logger
	rack   *coderack.Rack
	posted int

	result *Context
	reason string
}

func (s *session) run(ctx context.Context, input *phrase.Phrase) (*Context, bool, error) {
	s.logger.Debug("session start", zap.String("input", input.String()))

	succeed := s.onceSucceed("session", func(c *Context) {
		s.result = c
		s.rack.Stop()
	})
	fail := s.onceFail("session", func(reason string) {
		s.reason = reason
	})
	s.match(s.src.Pattern, []*phrase.Phrase{input}, NewContext(), succeed, fail)

	err := s.rack.Drain(ctx)
	s.logger.Debug("session finish",
		zap.Bool("matched", s.result != nil),
		zap.String("reason", s.reason),
		zap.Int("steps", s.rack.Steps()),
		zap.Error(err))
	if s.result != nil {
		return s.result, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// ============================================================================
// Move-once continuations
// ============================================================================

func (s *session) onceSucceed(name string, fn Succeed) Succeed {
	used := false
	return func(c *Context) {
		if used {
			s.logger.Debug("continuation invoked twice", zap.String("continuation", name))
			return
		}
		used = true
		fn(c)
	}
}

func (s *session) onceFail(name string, fn Fail) Fail {
	used := false
	return func(reason string) {
		if used {
			s.logger.Debug("failure invoked twice", zap.String("failure", name))
			return
		}
		used = true
		fn(reason)
	}
}

// fork returns one failure per branch; fail fires once all n have failed.
func (s *session) fork(n int, fail Fail) []Fail {
	remaining := n
	reasons := make([]string, 0, n)
	branches := make([]Fail, n)
	for i := range branches {
		branches[i] = s.onceFail("fork", func(reason string) {
			reasons = append(reasons, reason)
			remaining--
			if remaining == 0 {
				fail(strings.Join(reasons, "; "))
			}
		})
	}
	return branches
}

// ============================================================================
// State machine
// ============================================================================

// post schedules fn above everything already on the rack. The newest codelet
// always runs next, so the search is depth first: of two alternatives posted in
// a row, the second is explored completely before the first starts.
func (s *session) post(name string, fn func()) {
	s.posted++
	s.rack.Post(&coderack.Codelet{Name: name, Salience: float64(s.posted), Time: 1, Run: fn})
}

// match schedules one step of (contents, input, ctx).
func (s *session) match(contents []Content, input []*phrase.Phrase, ctx *Context, succeed Succeed, fail Fail) {
	s.post("match", func() { s.step(contents, input, ctx, succeed, fail) })
}

func (s *session) step(contents []Content, input []*phrase.Phrase, ctx *Context, succeed Succeed, fail Fail) {
	if len(contents) == 0 {
		if len(input) == 0 {
			succeed(ctx)
			return
		}
		fail("template exhausted before input")
		return
	}
	if len(input) == 0 {
		if remainderOptional(contents, ctx) {
			succeed(settleRemainder(contents, ctx))
			return
		}
		fail("input exhausted at " + contents[0].String())
		return
	}

	first, rest := contents[0], contents[1:]
	current := input[0]

	switch c := first.(type) {
	case Star:
		leaves := expand(input)
		if len(leaves) == 0 {
			s.match(contents, leaves, ctx, succeed, fail)
			return
		}
		// lazy: stopping here is posted last so it runs first
		branches := s.fork(2, fail)
		s.match(contents, leaves[1:], ctx.Append(c.Key(), leaves[0]), succeed, branches[0])
		s.match(rest, input, ctx.Ensure(c.Key()), succeed, branches[1])

	case Placeholder:
		leaves := expand(input)
		if len(leaves) == 0 {
			s.match(contents, leaves, ctx, succeed, fail)
			return
		}
		s.match(rest, leaves[1:], ctx.Bind(c.Key(), leaves[0]), succeed, fail)

	case Optional:
		with := make([]Content, 0, len(c.Contents)+len(rest))
		with = append(with, c.Contents...)
		with = append(with, rest...)
		s.match(with, input, ctx, succeed, s.onceFail("optional", func(string) {
			s.match(rest, input, ctx, succeed, fail)
		}))

	case End:
		fail("input remains at end marker")

	case Literal:
		if current.IsLeaf() {
			if s.m.comparer.Matches(current.Word(), string(c)) {
				s.match(rest, input[1:], ctx, succeed, fail)
				return
			}
			fail("literal " + string(c) + " does not match " + current.Word())
			return
		}
		s.match(contents, descend(input), ctx, succeed, fail)

	case Variable:
		if c.IsMatch(current) {
			s.match(rest, input[1:], ctx.Bind(c.Name(), current), succeed, fail)
			return
		}
		if current.IsLeaf() {
			fail("variable " + c.String() + " rejects " + current.String())
			return
		}
		s.match(contents, descend(input), ctx, succeed, fail)

	case Agent:
		s.progress(c, contents, []*phrase.Phrase{current}, input[1:], ctx, succeed, fail)

	default:
		fail("unrecognized content " + first.String())
	}
}

// progress asks the agent about span and extends it one top-level phrase at a time.
func (s *session) progress(a Agent, contents []Content, span, remaining []*phrase.Phrase, ctx *Context, succeed Succeed, fail Fail) {
	rest := contents[1:]

	extend := func(fail Fail) {
		if len(remaining) == 0 {
			fail("agent " + a.Name() + " ran out of input")
			return
		}
		next := make([]*phrase.Phrase, len(span), len(span)+1)
		copy(next, span)
		next = append(next, remaining[0])
		s.post("progress", func() {
			s.progress(a, contents, next, remaining[1:], ctx, succeed, fail)
		})
	}

	// a single composite the agent cannot settle on is retried on its children
	retryChildren := func() bool {
		if len(span) != 1 || span[0].IsLeaf() {
			return false
		}
		input := make([]*phrase.Phrase, 0, len(remaining)+1)
		input = append(input, span[0])
		input = append(input, remaining...)
		s.match(contents, descend(input), ctx, succeed, fail)
		return true
	}

	switch a.Decide(span) {
	case Accept:
		s.match(rest, remaining, ctx.Bind(a.Name(), span...), succeed, s.onceFail("agent", func(string) {
			if len(remaining) == 0 && retryChildren() {
				return
			}
			extend(fail)
		}))
	case Undetermined:
		if len(remaining) == 0 && retryChildren() {
			return
		}
		extend(fail)
	default:
		if retryChildren() {
			return
		}
		fail("agent " + a.Name() + " rejected span")
	}
}

// ============================================================================
// Input queue helpers
// ============================================================================

// descend replaces the first input phrase with its children.
func descend(input []*phrase.Phrase) []*phrase.Phrase {
	kids := input[0].Children()
	out := make([]*phrase.Phrase, 0, len(kids)+len(input)-1)
	out = append(out, kids...)
	return append(out, input[1:]...)
}

// expand descends until the first input phrase is a leaf. Empty composites
// vanish, so the result may be empty.
func expand(input []*phrase.Phrase) []*phrase.Phrase {
	for len(input) > 0 && !input[0].IsLeaf() {
		input = descend(input)
	}
	return input
}

// remainderOptional reports whether the unconsumed contents can match nothing.
func remainderOptional(contents []Content, ctx *Context) bool {
	for _, c := range contents {
		switch c := c.(type) {
		case Optional, End, Star:
		case Placeholder:
			if !ctx.Has(c.Key()) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// settleRemainder binds trailing stars to empty spans.
func settleRemainder(contents []Content, ctx *Context) *Context {
	for _, c := range contents {
		if st, ok := c.(Star); ok {
			ctx = ctx.Ensure(st.Key())
		}
	}
	return ctx
}
