package match

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

func TestNewSourceValidation(t *testing.T) {
	tests := []struct {
		name     string
		pattern  []Content
		template []Content
		wantErr  error
	}{
		{
			name:     "bound star",
			pattern:  []Content{Star{Name: "x"}, Literal("done")},
			template: []Content{Literal("finished"), Ref{Name: "*x"}},
		},
		{
			name:     "unbound ref",
			pattern:  Words("hello"),
			template: []Content{Ref{Name: "who"}},
			wantErr:  ErrUnboundRef,
		},
		{
			name:     "optional binding used outside optional block",
			pattern:  []Content{Optional{Contents: []Content{Placeholder{Name: "y"}}}, Literal("x")},
			template: []Content{Ref{Name: "_y"}},
			wantErr:  ErrUnboundRef,
		},
		{
			name:     "optional binding used inside optional block",
			pattern:  []Content{Optional{Contents: []Content{Placeholder{Name: "y"}}}, Literal("x")},
			template: []Content{Optional{Contents: []Content{Ref{Name: "_y"}}}},
		},
		{
			name:     "pattern item in template",
			pattern:  Words("x"),
			template: []Content{Star{}},
			wantErr:  ErrTemplateContent,
		},
		{
			name:     "empty pattern",
			template: Words("x"),
			wantErr:  ErrEmptyPattern,
		},
		{
			name:     "variable binding",
			pattern:  []Content{NewTagVariable("n", phrase.NP), Star{}},
			template: []Content{Ref{Name: "n"}, Ref{Name: "*"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource("t", tt.pattern, tt.template, 1, "test")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, src)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test", src.Provenance)
		})
	}
}

func TestProduceClonesBindings(t *testing.T) {
	m := New()
	input := dogRan()
	src := MustSource("a-x",
		[]Content{Literal("the"), Star{Name: "x"}, Literal(".")},
		[]Content{Literal("a"), Ref{Name: "*x"}},
		1)

	ctx, ok, err := m.Match(context.Background(), input, src)
	require.NoError(t, err)
	require.True(t, ok)

	out := m.Produce(src, ctx, input.Tag())
	require.NotNil(t, out)
	assert.Equal(t, "(S a/DT dog/NN ran/VBD)", out.String())

	inputLeaves := map[*phrase.Phrase]bool{}
	for _, l := range input.Leaves() {
		inputLeaves[l] = true
	}
	for _, l := range out.Leaves() {
		assert.False(t, inputLeaves[l], "produced leaf %s aliases the input", l)
	}
}

func TestProduceSkipsUnboundOptionalBlock(t *testing.T) {
	m := New()
	input := dogRan()
	src := MustSource("opt",
		[]Content{Literal("the"), Optional{Contents: []Content{Placeholder{Name: "y"}, Literal("cat")}}, Star{Name: "x"}, Literal(".")},
		[]Content{Ref{Name: "*x"}, Optional{Contents: []Content{Literal("really"), Ref{Name: "_y"}}}},
		1)

	ctx, ok, err := m.Match(context.Background(), input, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, ctx.Has("_y"), "binding from the failed optional branch leaked")

	out := m.Produce(src, ctx, phrase.FRAG)
	require.NotNil(t, out)
	assert.Equal(t, "dog ran", out.Text())
}

func TestMatchAndProducePicksHighestScore(t *testing.T) {
	m := New(WithWorkers(2))
	input := frag("we are done")

	sources := []*Source{
		MustSource("star", []Content{Star{Name: "x"}, Literal("done")}, []Content{Literal("finished"), Ref{Name: "*x"}}, 1),
		MustSource("exact", Words("we", "are", "done"), Words("all", "done"), 2),
		MustSource("miss", Words("nope"), Words("never"), 10),
	}

	res, ok, err := m.MatchAndProduce(context.Background(), input, sources)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "exact", res.Source.ID)
	assert.Equal(t, "all done", res.Phrase.Text())
	assert.Equal(t, phrase.FRAG, res.Phrase.Tag())
	assert.NotEmpty(t, res.Session)
}

func TestMatchAndProduceTiesGoToEarlierSource(t *testing.T) {
	m := New()
	input := frag("we are done")

	sources := []*Source{
		MustSource("first", []Content{Star{Name: "x"}, Literal("done")}, []Content{Literal("finished"), Ref{Name: "*x"}}, 1),
		MustSource("second", Words("we", "are", "done"), Words("all", "done"), 1),
	}

	for i := 0; i < 10; i++ {
		res, ok, err := m.MatchAndProduce(context.Background(), input, sources)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "first", res.Source.ID)
		assert.Equal(t, "finished we are", res.Phrase.Text())
	}
}

func TestMatchAndProduceNoMatch(t *testing.T) {
	m := New(WithStepBudget(20))
	input := frag(strings.Repeat("word ", 30))

	sources := []*Source{
		MustSource("miss", Words("nope"), Words("never"), 1),
		MustSource("costly", []Content{Star{Name: "a"}, Star{Name: "b"}, Literal("zzz")}, Words("never"), 1),
	}
	res, ok, err := m.MatchAndProduce(context.Background(), input, sources)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestMatchAndProduceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sources := []*Source{MustSource("exact", Words("we"), Words("us"), 1)}
	_, ok, err := New().MatchAndProduce(ctx, frag("we"), sources)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingAssembler struct {
	tag   phrase.Tag
	parts int
}

func (r *recordingAssembler) Assemble(tag phrase.Tag, parts []*phrase.Phrase) *phrase.Phrase {
	r.tag, r.parts = tag, len(parts)
	return phrase.NewComposite(phrase.PARA, parts...)
}

func TestProduceUsesAssembler(t *testing.T) {
	rec := &recordingAssembler{}
	m := New(WithAssembler(rec))
	src := MustSource("x", Words("we"), Words("us", "too"), 1)

	out := m.Produce(src, NewContext(), phrase.NP)
	require.NotNil(t, out)
	assert.Equal(t, phrase.NP, rec.tag)
	assert.Equal(t, 2, rec.parts)
	assert.Equal(t, phrase.PARA, out.Tag())
}

func TestSessionContinuationsAreMoveOnce(t *testing.T) {
	m := New()
	s := m.newSession(&Source{ID: "once", Pattern: Words("x")})

	calls := 0
	succeed := s.onceSucceed("test", func(*Context) { calls++ })
	succeed(NewContext())
	succeed(NewContext())
	assert.Equal(t, 1, calls)

	var reasons []string
	branches := s.fork(2, func(r string) { reasons = append(reasons, r) })
	branches[0]("left")
	branches[0]("left again")
	assert.Empty(t, reasons)
	branches[1]("right")
	assert.Equal(t, []string{"left; right"}, reasons)
}
