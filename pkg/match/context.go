package match

import (
	"sort"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

// Context holds the bindings of one search branch. It is immutable: Bind and
// Append return a new Context and leave the receiver untouched, so sibling
// branches never observe each other's bindings.
type Context struct {
	bindings map[string][]*phrase.Phrase
}

// NewContext returns an empty Context
func NewContext() *Context {
	return &Context{bindings: map[string][]*phrase.Phrase{}}
}

func (c *Context) with(name string, value []*phrase.Phrase) *Context {
	next := make(map[string][]*phrase.Phrase, len(c.bindings)+1)
	for k, v := range c.bindings {
		next[k] = v
	}
	next[name] = value
	return &Context{bindings: next}
}

// Bind sets name to ps, replacing any earlier value.
func (c *Context) Bind(name string, ps ...*phrase.Phrase) *Context {
	value := make([]*phrase.Phrase, len(ps))
	copy(value, ps)
	return c.with(name, value)
}

// Ensure binds name to nothing unless it is already bound.
func (c *Context) Ensure(name string) *Context {
	if _, ok := c.bindings[name]; ok {
		return c
	}
	return c.with(name, []*phrase.Phrase{})
}

// Append adds p to the end of name's value.
func (c *Context) Append(name string, p *phrase.Phrase) *Context {
	old := c.bindings[name]
	value := make([]*phrase.Phrase, len(old), len(old)+1)
	copy(value, old)
	return c.with(name, append(value, p))
}

// Lookup returns the phrases bound to name.
func (c *Context) Lookup(name string) ([]*phrase.Phrase, bool) {
	v, ok := c.bindings[name]
	return v, ok
}

// Has reports whether name is bound
func (c *Context) Has(name string) bool {
	_, ok := c.bindings[name]
	return ok
}

// Words returns the leaf words bound to name, in order.
func (c *Context) Words(name string) []string {
	var out []string
	for _, p := range c.bindings[name] {
		out = append(out, p.Words()...)
	}
	return out
}

// Names returns the bound names, sorted.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.bindings))
	for k := range c.bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings
func (c *Context) Len() int { return len(c.bindings) }
