package match

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kittclouds/parsekit/pkg/coderack"
	"github.com/kittclouds/parsekit/pkg/lexicon"
	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/tagger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func leaf(word string, tag phrase.Tag) *phrase.Phrase {
	return phrase.Classify(tag)(word)
}

// (S (NP The/DT dog/NN) (VP ran/VBD) ./.)
func dogRan() *phrase.Phrase {
	return phrase.NewComposite(phrase.S,
		phrase.NewComposite(phrase.NP, leaf("The", phrase.DT), leaf("dog", phrase.NN)),
		phrase.NewComposite(phrase.VP, leaf("ran", phrase.VBD)),
		leaf(".", phrase.Stop),
	)
}

var tg = tagger.New()

func frag(text string) *phrase.Phrase {
	return phrase.NewComposite(phrase.FRAG, phrase.FromTokens(tg.Tag(text))...)
}

func mustMatch(t *testing.T, m *Matcher, input *phrase.Phrase, pattern ...Content) *Context {
	t.Helper()
	ctx, ok, err := m.MatchPattern(context.Background(), input, pattern...)
	require.NoError(t, err)
	require.True(t, ok, "expected %q to match %s", Render(pattern), input)
	return ctx
}

func mustNotMatch(t *testing.T, m *Matcher, input *phrase.Phrase, pattern ...Content) {
	t.Helper()
	_, ok, err := m.MatchPattern(context.Background(), input, pattern...)
	require.NoError(t, err)
	require.False(t, ok, "expected %q not to match %s", Render(pattern), input)
}

func TestLiteralPatternsMatchExactLeafSequence(t *testing.T) {
	m := New()
	input := dogRan()

	mustMatch(t, m, input, Words("the", "dog", "ran", ".")...)
	mustMatch(t, m, input, Words("THE", "Dog", "RAN", ".")...)

	mustNotMatch(t, m, input, Words("the", "dog", "ran")...)
	mustNotMatch(t, m, input, Words("the", "dog", "ran", ".", "now")...)
	mustNotMatch(t, m, input, Words("the", "cat", "ran", ".")...)
	mustNotMatch(t, m, input, Words("dog", "ran", ".")...)
}

func TestOptionalBlock(t *testing.T) {
	m := New()
	pattern := []Content{Literal("hello"), Optional{Contents: Words("there")}, Literal("world")}

	mustMatch(t, m, frag("hello world"), pattern...)
	mustMatch(t, m, frag("hello there world"), pattern...)
	mustNotMatch(t, m, frag("hello there there world"), pattern...)
	mustNotMatch(t, m, frag("hello"), pattern...)
}

func TestStarBindsConsumedPrefix(t *testing.T) {
	m := New()
	pattern := []Content{Star{}, Literal("done")}

	ctx := mustMatch(t, m, frag("we are finally done"), pattern...)
	if diff := cmp.Diff([]string{"we", "are", "finally"}, ctx.Words("*")); diff != "" {
		t.Errorf("star binding mismatch (-want +got):\n%s", diff)
	}

	ctx = mustMatch(t, m, frag("done"), pattern...)
	assert.True(t, ctx.Has("*"))
	assert.Empty(t, ctx.Words("*"))

	mustNotMatch(t, m, frag("done now"), pattern...)
}

func TestStarDescendsIntoComposites(t *testing.T) {
	m := New()
	ctx := mustMatch(t, m, dogRan(), Literal("the"), Star{Name: "rest"})
	assert.Equal(t, []string{"dog", "ran", "."}, ctx.Words("*rest"))

	ctx = mustMatch(t, m, dogRan(), Star{Name: "a"}, Literal("ran"), Star{Name: "b"})
	assert.Equal(t, []string{"The", "dog"}, ctx.Words("*a"))
	assert.Equal(t, []string{"."}, ctx.Words("*b"))
}

func TestStarIsLazy(t *testing.T) {
	m := New()

	// the leftmost star takes as little as the rest of the pattern allows
	ctx := mustMatch(t, m, frag("the x the y"), Star{Name: "a"}, Literal("the"), Star{Name: "b"})
	assert.True(t, ctx.Has("*a"))
	assert.Empty(t, ctx.Words("*a"))
	assert.Equal(t, []string{"x", "the", "y"}, ctx.Words("*b"))

	ctx = mustMatch(t, m, frag("the x the y"), Star{Name: "a"}, Literal("the"), Literal("y"))
	assert.Equal(t, []string{"the", "x"}, ctx.Words("*a"))
}

func TestPlaceholderConsumesOneLeaf(t *testing.T) {
	m := New()
	ctx := mustMatch(t, m, frag("the dog"), Placeholder{}, Literal("dog"))
	assert.Equal(t, []string{"the"}, ctx.Words("_"))

	mustNotMatch(t, m, frag("a big dog"), Placeholder{}, Literal("dog"))
	mustNotMatch(t, m, frag("dog"), Placeholder{}, Literal("dog"))
}

func TestEndMarker(t *testing.T) {
	m := New()
	mustMatch(t, m, frag("the dog"), Literal("the"), Literal("dog"), End{})
	mustNotMatch(t, m, frag("the dog barks"), Literal("the"), Literal("dog"), End{}, Star{})
}

func TestVariableDescends(t *testing.T) {
	m := New()
	ctx := mustMatch(t, m, dogRan(), NewTagVariable("subj", phrase.NP), Literal("ran"), Literal("."))

	bound, ok := ctx.Lookup("subj")
	require.True(t, ok)
	require.Len(t, bound, 1)
	assert.Equal(t, "(NP The/DT dog/NN)", bound[0].String())

	// a leaf that fails the variable is final
	mustNotMatch(t, m, dogRan(), NewTagVariable("v", phrase.VB), Star{})
}

func TestLemmaAndSynonymVariables(t *testing.T) {
	m := New()
	morph := lexicon.NewSuffixMorphology()
	syn := lexicon.DefaultSynonyms()

	ctx := mustMatch(t, m, dogRan(),
		Literal("the"),
		NewSynonymVariable("animal", "hound", phrase.PartNoun, syn),
		NewLemmaVariable("verb", "run", morph),
		Literal("."))
	assert.Equal(t, []string{"dog"}, ctx.Words("animal"))
	assert.Equal(t, []string{"ran"}, ctx.Words("verb"))

	mustNotMatch(t, m, dogRan(),
		Literal("the"), Literal("dog"), NewLemmaVariable("verb", "walk", morph), Literal("."))
}

func TestSpellingComparer(t *testing.T) {
	m := New(WithComparer(lexicon.NewSpellingComparer()))
	mustMatch(t, m, frag("teh dog"), Words("the", "dog")...)
	mustNotMatch(t, New(), frag("teh dog"), Words("the", "dog")...)
}

func TestProgressiveAgent(t *testing.T) {
	m := New()

	pred := NewProgressive("pred", UntilTag(phrase.VP))
	ctx := mustMatch(t, m, dogRan(), Literal("the"), pred, Literal("."))
	assert.Equal(t, []string{"dog", "ran"}, ctx.Words("pred"))

	// the root S never settles, so the agent retries on its children
	subj := NewProgressive("subj", UntilTag(phrase.NP))
	ctx = mustMatch(t, m, dogRan(), subj, Star{})
	assert.Equal(t, []string{"The", "dog"}, ctx.Words("subj"))

	// accepted spans keep growing when the rest fails
	span := NewProgressive("span", AnyUntilTerminal)
	ctx = mustMatch(t, m, frag("a b c stop"), span, Literal("stop"))
	assert.Equal(t, []string{"a", "b", "c"}, ctx.Words("span"))

	mustNotMatch(t, m, frag("a b . c"), span, Literal("c"))
}

func TestUnknownContentFails(t *testing.T) {
	m := New()
	mustNotMatch(t, m, dogRan(), Ref{Name: "x"})
}

func TestNilInput(t *testing.T) {
	m := New()
	_, _, err := m.MatchPattern(context.Background(), nil, Literal("x"))
	assert.ErrorIs(t, err, ErrNilInput)

	_, _, err = m.MatchAndProduce(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestNilSource(t *testing.T) {
	m := New()
	_, ok, err := m.Match(context.Background(), dogRan(), nil)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNilSource)

	sources := []*Source{MustSource("exact", Words("the", "dog", "ran", "."), Words("ok"), 1), nil}
	var res *Result
	assert.NotPanics(t, func() {
		res, ok, err = m.MatchAndProduce(context.Background(), dogRan(), sources)
	})
	assert.ErrorIs(t, err, ErrNilSource)
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestStepBudget(t *testing.T) {
	m := New(WithStepBudget(20))
	input := frag(strings.Repeat("word ", 30))

	_, ok, err := m.MatchPattern(context.Background(), input, Star{Name: "a"}, Star{Name: "b"}, Literal("zzz"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, coderack.ErrBudgetExhausted)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := New().MatchPattern(ctx, dogRan(), Words("the", "dog", "ran", ".")...)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContextIsCopyOnWrite(t *testing.T) {
	base := NewContext().Bind("a", leaf("x", phrase.NN))
	left := base.Append("a", leaf("y", phrase.NN))
	right := base.Bind("b", leaf("z", phrase.NN))

	assert.Equal(t, []string{"x"}, base.Words("a"))
	assert.Equal(t, []string{"x", "y"}, left.Words("a"))
	assert.False(t, left.Has("b"))
	assert.Equal(t, []string{"a", "b"}, right.Names())
	assert.Equal(t, 1, base.Len())
}
