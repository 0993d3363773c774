// Package template reads pattern/template pairs written in a compact text
// notation, loads libraries of them from YAML, and prefilters candidates by
// the literal words they require.
//
// Pattern notation, items separated by spaces:
//
//	word          literal (a leading backslash escapes: \* \[ \$)
//	*  *name      star, zero or more leaves
//	_  _name      placeholder, exactly one leaf
//	[ ... ]       optional block, nestable
//	$             end of input
//	{n:NP|NN}     tag variable
//	{n:=run}      lemma variable
//	{n:~dog}      synonym variable
//	@name         registered agent
//
// Template notation uses literals, [ ... ] and references: {n}, *name, _name.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kittclouds/parsekit/pkg/lexicon"
	"github.com/kittclouds/parsekit/pkg/match"
	"github.com/kittclouds/parsekit/pkg/phrase"
)

var (
	// ErrSyntax is the base error for malformed notation
	ErrSyntax = errors.New("template: syntax error")
	// ErrUnbalanced is returned for a missing or stray bracket
	ErrUnbalanced = fmt.Errorf("%w: unbalanced brackets", ErrSyntax)
	// ErrEmptyName is returned for a variable or agent without a name
	ErrEmptyName = fmt.Errorf("%w: empty name", ErrSyntax)
	// ErrUnknownAgent is returned for an @name nobody registered
	ErrUnknownAgent = errors.New("template: unknown agent")
)

// Compiler turns notation into match contents. It carries the services that
// variables and agents need.
type Compiler struct {
	agents map[string]match.Agent
	morph  lexicon.Morphology
	syn    lexicon.Synonyms
}

// Option configures a Compiler
type Option func(*Compiler)

// WithAgent registers an agent under its name
func WithAgent(a match.Agent) Option {
	return func(c *Compiler) { c.agents[a.Name()] = a }
}

// WithMorphology sets the service behind lemma variables
func WithMorphology(m lexicon.Morphology) Option {
	return func(c *Compiler) { c.morph = m }
}

// WithSynonyms sets the service behind synonym variables
func WithSynonyms(s lexicon.Synonyms) Option {
	return func(c *Compiler) { c.syn = s }
}

// NewCompiler creates a Compiler with the built-in agents "span" (any run of
// phrases up to a sentence terminal) and "predicate" (a run ending in a VP).
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		agents: map[string]match.Agent{
			"span":      match.NewProgressive("span", match.AnyUntilTerminal),
			"predicate": match.NewProgressive("predicate", match.UntilTag(phrase.VP)),
		},
		morph: lexicon.NewSuffixMorphology(),
		syn:   lexicon.DefaultSynonyms(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pattern parses pattern notation.
func (c *Compiler) Pattern(text string) ([]match.Content, error) {
	p := &notationParser{tokens: lex(text), item: c.patternItem}
	return p.parse()
}

// Template parses template notation.
func (c *Compiler) Template(text string) ([]match.Content, error) {
	p := &notationParser{tokens: lex(text), item: c.templateItem}
	return p.parse()
}

// Compile builds a validated Source from a definition.
func (c *Compiler) Compile(def Definition) (*match.Source, error) {
	pattern, err := c.Pattern(def.Pattern)
	if err != nil {
		return nil, fmt.Errorf("template %q pattern: %w", def.ID, err)
	}
	tmpl, err := c.Template(def.Template)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", def.ID, err)
	}
	return match.NewSource(def.ID, pattern, tmpl, def.Score, def.Provenance)
}

// CompileAll compiles every definition and stops at the first error.
func (c *Compiler) CompileAll(defs []Definition) ([]*match.Source, error) {
	out := make([]*match.Source, 0, len(defs))
	for _, d := range defs {
		src, err := c.Compile(d)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// ============================================================================
// Lexing
// ============================================================================

// lex splits on spaces and makes brackets their own tokens, except inside braces.
func lex(text string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	escaped := false
	for _, ch := range text {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && depth == 0:
			cur.WriteRune(ch)
			escaped = true
		case ch == '{':
			depth++
			cur.WriteRune(ch)
		case ch == '}':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(ch)
		case depth == 0 && (ch == '[' || ch == ']'):
			flush()
			tokens = append(tokens, string(ch))
		case depth == 0 && (ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'):
			flush()
		default:
			cur.WriteRune(ch)
		}
	}
	flush()
	return tokens
}

// ============================================================================
// Parsing
// ============================================================================

type notationParser struct {
	tokens []string
	pos    int
	item   func(tok string) (match.Content, error)
}

func (p *notationParser) parse() ([]match.Content, error) {
	out, err := p.sequence()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: stray ] at item %d", ErrUnbalanced, p.pos)
	}
	return out, nil
}

func (p *notationParser) sequence() ([]match.Content, error) {
	var out []match.Content
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok {
		case "[":
			p.pos++
			inner, err := p.sequence()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.tokens) {
				return nil, fmt.Errorf("%w: missing ]", ErrUnbalanced)
			}
			p.pos++ // ]
			out = append(out, match.Optional{Contents: inner})
		case "]":
			// the caller owns the bracket; at top level parse reports it as stray
			return out, nil
		default:
			c, err := p.item(tok)
			if err != nil {
				return nil, fmt.Errorf("item %d %q: %w", p.pos, tok, err)
			}
			out = append(out, c)
			p.pos++
		}
	}
	return out, nil
}

func (c *Compiler) patternItem(tok string) (match.Content, error) {
	switch {
	case strings.HasPrefix(tok, `\`):
		return match.Literal(tok[1:]), nil
	case tok == "$":
		return match.End{}, nil
	case strings.HasPrefix(tok, "*"):
		return match.Star{Name: tok[1:]}, nil
	case strings.HasPrefix(tok, "_") && isName(tok[1:]):
		return match.Placeholder{Name: tok[1:]}, nil
	case strings.HasPrefix(tok, "@"):
		name := tok[1:]
		if name == "" {
			return nil, ErrEmptyName
		}
		a, ok := c.agents[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, name)
		}
		return a, nil
	case strings.HasPrefix(tok, "{"):
		return c.variable(tok)
	}
	return match.Literal(tok), nil
}

func (c *Compiler) variable(tok string) (match.Content, error) {
	body, err := braced(tok)
	if err != nil {
		return nil, err
	}
	name, decl, ok := strings.Cut(body, ":")
	if !ok {
		return nil, fmt.Errorf("%w: variable %s needs name:kind", ErrSyntax, tok)
	}
	name = strings.TrimSpace(name)
	decl = strings.TrimSpace(decl)
	if name == "" {
		return nil, ErrEmptyName
	}
	switch {
	case strings.HasPrefix(decl, "="):
		if decl[1:] == "" {
			return nil, fmt.Errorf("%w: empty lemma in %s", ErrSyntax, tok)
		}
		return match.NewLemmaVariable(name, decl[1:], c.morph), nil
	case strings.HasPrefix(decl, "~"):
		if decl[1:] == "" {
			return nil, fmt.Errorf("%w: empty word in %s", ErrSyntax, tok)
		}
		return match.NewSynonymVariable(name, decl[1:], phrase.PartNone, c.syn), nil
	}
	var tags []phrase.Tag
	for _, t := range strings.Split(decl, "|") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, phrase.Tag(t))
		}
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no tags in %s", ErrSyntax, tok)
	}
	return match.NewTagVariable(name, tags...), nil
}

func (c *Compiler) templateItem(tok string) (match.Content, error) {
	switch {
	case strings.HasPrefix(tok, `\`):
		return match.Literal(tok[1:]), nil
	case strings.HasPrefix(tok, "*"):
		return match.Ref{Name: tok}, nil
	case strings.HasPrefix(tok, "_") && isName(tok[1:]):
		return match.Ref{Name: tok}, nil
	case strings.HasPrefix(tok, "{"):
		body, err := braced(tok)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(body)
		if name == "" {
			return nil, ErrEmptyName
		}
		return match.Ref{Name: name}, nil
	case tok == "$" || strings.HasPrefix(tok, "@"):
		return nil, fmt.Errorf("%w: %s is only valid in patterns", ErrSyntax, tok)
	}
	return match.Literal(tok), nil
}

func braced(tok string) (string, error) {
	if !strings.HasSuffix(tok, "}") || strings.Count(tok, "{") != 1 || strings.Count(tok, "}") != 1 {
		return "", fmt.Errorf("%w: malformed braces in %s", ErrUnbalanced, tok)
	}
	return tok[1 : len(tok)-1], nil
}

// isName accepts "", letters, digits and '-'. "_" alone is an anonymous placeholder;
// words like "_foo!" stay literals.
func isName(s string) bool {
	for _, r := range s {
		if !(r == '-' || r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')) {
			return false
		}
	}
	return true
}
