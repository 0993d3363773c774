package tagger

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"The dog ran.", []string{"The", "dog", "ran", "."}},
		{"Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"John's well-known dog", []string{"John", "'s", "well-known", "dog"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Words(tt.text)); diff != "" {
				t.Errorf("Words(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestTokenizeRanges(t *testing.T) {
	text := "it's ok"
	ranges := Tokenize(text)
	assert.Equal(t, []TextRange{{0, 2}, {2, 4}, {5, 7}}, ranges)
	assert.Equal(t, 2, ranges[1].Len())
	assert.Equal(t, "", TextRange{Start: 5, End: 99}.Slice(text))
}

func tagsOf(tokens []phrase.Token) []phrase.Tag {
	out := make([]phrase.Tag, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Tag
	}
	return out
}

func TestTagger(t *testing.T) {
	tg := New()

	tests := []struct {
		text string
		want []phrase.Tag
	}{
		{"The dog ran.", []phrase.Tag{phrase.DT, phrase.NN, phrase.VBD, phrase.Stop}},
		{"The dogs barked loudly.", []phrase.Tag{phrase.DT, phrase.NNS, phrase.VBD, phrase.RB, phrase.Stop}},
		{"She can run", []phrase.Tag{phrase.PRP, phrase.MD, phrase.VB}},
		{"I want to run", []phrase.Tag{phrase.PRP, phrase.VBP, phrase.TO, phrase.VB}},
		{"He has walked", []phrase.Tag{phrase.PRP, phrase.VBZ, phrase.VBN}},
		{"There is a dog", []phrase.Tag{phrase.EX, phrase.VBZ, phrase.DT, phrase.NN}},
		{"I saw her dog", []phrase.Tag{phrase.PRP, phrase.VBD, phrase.PRPS, phrase.NN}},
		{"John's dog", []phrase.Tag{phrase.NNP, phrase.POS, phrase.NN}},
		{"I met Mary", []phrase.Tag{phrase.PRP, phrase.VBD, phrase.NNP}},
		{"the run", []phrase.Tag{phrase.DT, phrase.NN}},
		{"42 dogs", []phrase.Tag{phrase.CD, phrase.NNS}},
		{"the dog that barked", []phrase.Tag{phrase.DT, phrase.NN, phrase.WDT, phrase.VBD}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := tagsOf(tg.Tag(tt.text))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tag(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestTaggerAdd(t *testing.T) {
	tg := New()
	tg.Add("Gandalf", phrase.NNP)
	tokens := tg.Tag("gandalf")
	assert.Equal(t, phrase.NNP, tokens[0].Tag)
	assert.Equal(t, "gandalf", tokens[0].Word)
}

func TestTaggerTotal(t *testing.T) {
	tg := New()
	for _, tok := range tg.Tag("zxqv ?? @ # 3-4 ...") {
		assert.NotEmpty(t, tok.Tag, "token %q has no tag", tok.Word)
	}
}
