package template

import (
	"context"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/parsekit/pkg/match"
	"github.com/kittclouds/parsekit/pkg/phrase"
)

func TestPatternNotation(t *testing.T) {
	c := NewCompiler()

	tests := []struct {
		in   string
		want string
	}{
		{"hello [ there ] world", "hello [ there ] world"},
		{"hello [there] world", "hello [ there ] world"},
		{"a [ b [ c ] ] d", "a [ b [ c ] ] d"},
		{"{n:NP|NN} {v:=run} {s:~dog} @span", "{n:NN|NP} {v:=run} {s:~dog} @span"},
		{"* *x _ _y $", "* *x _ _y $"},
		{`\* \[ \$`, "* [ $"},
		{"  spaced\tout\n", "spaced out"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := c.Pattern(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, match.Render(got))
		})
	}
}

func TestPatternNotationTypes(t *testing.T) {
	c := NewCompiler()
	got, err := c.Pattern(`*x _ $ \_y {n:NP}`)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, match.Star{Name: "x"}, got[0])
	assert.Equal(t, match.Placeholder{}, got[1])
	assert.Equal(t, match.End{}, got[2])
	assert.Equal(t, match.Literal("_y"), got[3])
	assert.Implements(t, (*match.Variable)(nil), got[4])
}

func TestTemplateNotation(t *testing.T) {
	c := NewCompiler()
	got, err := c.Template("{n} *x _y [ really {n} ] .")
	require.NoError(t, err)
	assert.Equal(t, "{n} *x _y [ really {n} ] .", match.Render(got))
	assert.Equal(t, match.Ref{Name: "*x"}, got[1])
}

func TestNotationErrors(t *testing.T) {
	c := NewCompiler()

	patternErrs := []struct {
		in   string
		want error
	}{
		{"hello [ world", ErrUnbalanced},
		{"hello ] world", ErrUnbalanced},
		{"{:NN}", ErrEmptyName},
		{"{n:}", ErrSyntax},
		{"{n}", ErrSyntax},
		{"{n:NN", ErrUnbalanced},
		{"@", ErrEmptyName},
		{"@nobody", ErrUnknownAgent},
	}
	for _, tt := range patternErrs {
		_, err := c.Pattern(tt.in)
		assert.ErrorIs(t, err, tt.want, "pattern %q", tt.in)
	}

	for _, in := range []string{"$", "@span", "{}", "[ x"} {
		_, err := c.Template(in)
		assert.ErrorIs(t, err, ErrSyntax, "template %q", in)
	}
}

func TestCompile(t *testing.T) {
	c := NewCompiler()

	src, err := c.Compile(Definition{ID: "left", Pattern: "{who:NP} ran .", Template: "{who} left .", Score: 2})
	require.NoError(t, err)
	assert.Equal(t, "left", src.ID)
	assert.Equal(t, 2.0, src.Score)

	_, err = c.Compile(Definition{ID: "bad", Pattern: "hello", Template: "{who}"})
	assert.ErrorIs(t, err, match.ErrUnboundRef)

	_, err = c.CompileAll([]Definition{
		{ID: "ok", Pattern: "a", Template: "b"},
		{ID: "broken", Pattern: "a [", Template: "b"},
	})
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestCompiledSourceMatches(t *testing.T) {
	c := NewCompiler()
	src, err := c.Compile(Definition{ID: "left", Pattern: "{who:NP} {v:=run} .", Template: "{who} left ."})
	require.NoError(t, err)

	input := phrase.NewComposite(phrase.S,
		phrase.NewComposite(phrase.NP, phrase.Classify(phrase.DT)("The"), phrase.Classify(phrase.NN)("dog")),
		phrase.NewComposite(phrase.VP, phrase.Classify(phrase.VBD)("ran")),
		phrase.Classify(phrase.Stop)("."),
	)

	m := match.New()
	res, ok, err := m.MatchAndProduce(context.Background(), input, []*match.Source{src})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "The dog left .", res.Phrase.Text())
}

func TestCustomAgent(t *testing.T) {
	agent := match.NewProgressive("pair", func(span []*phrase.Phrase) match.Decision {
		if len(span) == 2 {
			return match.Accept
		}
		return match.Undetermined
	})
	c := NewCompiler(WithAgent(agent))
	got, err := c.Pattern("@pair end")
	require.NoError(t, err)
	assert.Same(t, agent, got[0])
}

const libraryYAML = `templates:
  - id: greet
    pattern: "hello [ there ] world"
    template: "hi world"
    score: 1
    provenance: builtin
  - pattern: "* done"
    template: "finished *"
    score: 0.5
`

func TestLoadLibrary(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.WriteFullFile(fs, "lib.yaml", []byte(libraryYAML), 0644))

	lib, err := LoadLibrary(fs, "lib.yaml")
	require.NoError(t, err)
	require.Len(t, lib.Templates, 2)
	assert.Equal(t, "greet", lib.Templates[0].ID)
	assert.Equal(t, "builtin", lib.Templates[0].Provenance)
	assert.NotEmpty(t, lib.Templates[1].ID, "missing id should be generated")
	assert.Equal(t, 0.5, lib.Templates[1].Score)

	sources, err := NewCompiler().CompileAll(lib.Templates)
	require.NoError(t, err)
	assert.Len(t, sources, 2)

	// round trip through Save
	require.NoError(t, lib.Save(fs, "copy.yaml"))
	again, err := LoadLibrary(fs, "copy.yaml")
	require.NoError(t, err)
	assert.Equal(t, lib.Templates, again.Templates)

	_, err = LoadLibrary(fs, "missing.yaml")
	assert.Error(t, err)
}

func TestParseLibraryDuplicateID(t *testing.T) {
	_, err := ParseLibrary([]byte("templates:\n  - id: a\n    pattern: x\n  - id: a\n    pattern: y\n"))
	assert.ErrorContains(t, err, "duplicate id")
}

func TestIndexCandidates(t *testing.T) {
	c := NewCompiler()
	defs := []Definition{
		{ID: "greet", Pattern: "hello [ there ] world", Template: "hi"},
		{ID: "done", Pattern: "* done", Template: "finished *"},
		{ID: "ran", Pattern: "the dog ran .", Template: "x"},
		{ID: "barked", Pattern: "{n:NP} barked", Template: "{n}"},
		{ID: "open", Pattern: "{n:NP} *", Template: "{n}"},
	}
	sources, err := c.CompileAll(defs)
	require.NoError(t, err)
	ix := NewIndex(sources)
	assert.Equal(t, 5, ix.Len())

	ids := func(words ...string) []string {
		var out []string
		for _, s := range ix.Candidates(words) {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []string{"greet", "open"}, ids("Hello", "world"))
	assert.Equal(t, []string{"greet", "open"}, ids("hello", "there", "world"))
	assert.Equal(t, []string{"done", "open"}, ids("we", "are", "done"))
	assert.Equal(t, []string{"ran", "open"}, ids("The", "dog", "ran", "."))
	assert.Equal(t, []string{"barked", "open"}, ids("the", "dog", "barked"))
	assert.Equal(t, []string{"open"}, ids("undone", "worldly"))
	assert.Equal(t, []string{"open"}, ids())
}

func TestRequiredLiterals(t *testing.T) {
	c := NewCompiler()
	p, err := c.Pattern("Hello [ there ] hello * World")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, RequiredLiterals(p))
}
