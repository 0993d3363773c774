package match

import (
	"github.com/kittclouds/parsekit/pkg/phrase"
)

// Assembler turns produced parts into one phrase. tag is the input phrase's tag.
type Assembler interface {
	Assemble(tag phrase.Tag, parts []*phrase.Phrase) *phrase.Phrase
}

// WrapAssembler wraps the parts in a composite of the input's tag. A single
// composite part is returned as is.
type WrapAssembler struct{}

// Assemble implements Assembler
func (WrapAssembler) Assemble(tag phrase.Tag, parts []*phrase.Phrase) *phrase.Phrase {
	switch {
	case len(parts) == 0:
		return nil
	case len(parts) == 1 && !parts[0].IsLeaf():
		return parts[0]
	}
	return phrase.NewComposite(tag, parts...)
}

// Produce builds src's template from bindings. Literals are tagged, references
// are deep copies of their bound phrases, and an optional block is emitted only
// when every reference in it is bound. It returns nil when nothing is produced.
func (m *Matcher) Produce(src *Source, bindings *Context, tag phrase.Tag) *phrase.Phrase {
	parts := m.produce(src.Template, bindings, nil)
	if len(parts) == 0 {
		return nil
	}
	return m.assembler.Assemble(tag, parts)
}

func (m *Matcher) produce(contents []Content, bindings *Context, out []*phrase.Phrase) []*phrase.Phrase {
	for _, c := range contents {
		switch c := c.(type) {
		case Literal:
			out = append(out, phrase.FromTokens(m.tagger.Tag(string(c)))...)
		case Ref:
			bound, _ := bindings.Lookup(c.Name)
			for _, p := range bound {
				out = append(out, p.Clone())
			}
		case Optional:
			if allBound(c.Contents, bindings) {
				out = m.produce(c.Contents, bindings, out)
			}
		}
	}
	return out
}

func allBound(contents []Content, bindings *Context) bool {
	for _, c := range contents {
		switch c := c.(type) {
		case Ref:
			if !bindings.Has(c.Name) {
				return false
			}
		case Optional:
			// nested blocks decide for themselves
		}
	}
	return true
}
