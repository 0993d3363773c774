// Package parser is the entry point for turning tagged tokens or raw text into a
// constituent tree.
package parser

import (
	"errors"

	"go.uber.org/zap"

	"github.com/kittclouds/parsekit/pkg/grammar"
	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/sentence"
	"github.com/kittclouds/parsekit/pkg/tagger"
)

// ErrEmptyInput is returned when there is nothing to parse.
var ErrEmptyInput = errors.New("parser: empty input")

// Tagger turns text into (word, tag) pairs.
type Tagger interface {
	Tag(text string) []phrase.Token
}

// Parser holds the rule table and collaborators shared by all parses.
// It is safe for concurrent use; every call builds its own Sentence.
type Parser struct {
	rules     *sentence.RuleTable
	tagger    Tagger
	logger    *zap.Logger
	budget    int
	maxRounds int
}

// Option configures a Parser
type Option func(*Parser)

// WithRules replaces the English grammar
func WithRules(t *sentence.RuleTable) Option {
	return func(p *Parser) { p.rules = t }
}

// WithTagger replaces the default lexicon tagger
func WithTagger(t Tagger) Option {
	return func(p *Parser) { p.tagger = t }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithIterationBudget sets the cascade budget per top-level attempt
func WithIterationBudget(n int) Option {
	return func(p *Parser) { p.budget = n }
}

// WithMaxRounds caps successful rounds per parse; 0 keeps the size-based default
func WithMaxRounds(n int) Option {
	return func(p *Parser) { p.maxRounds = n }
}

// New creates a Parser with the English grammar and the default tagger.
func New(opts ...Option) *Parser {
	p := &Parser{
		rules:  grammar.Rules(),
		logger: zap.NewNop(),
		budget: sentence.DefaultIterationBudget,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tagger == nil {
		p.tagger = tagger.New()
	}
	return p
}

// Parse builds the tree for a tagged token sequence. Every non-empty input yields a
// tree; unknown tags become Unknown leaves and stuck input is fragmented.
func (p *Parser) Parse(tokens []phrase.Token) (*phrase.Phrase, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}
	return p.ParsePhrases(phrase.FromTokens(tokens))
}

// ParsePhrases runs the engine over already-built phrases. The phrases are consumed.
func (p *Parser) ParsePhrases(phrases []*phrase.Phrase) (*phrase.Phrase, error) {
	if len(phrases) == 0 {
		return nil, ErrEmptyInput
	}
	s := sentence.New(phrases,
		sentence.WithRules(p.rules),
		sentence.WithLogger(p.logger),
		sentence.WithIterationBudget(p.budget),
		sentence.WithMaxRounds(p.maxRounds),
	)
	root := s.Run()
	p.logger.Debug("parsed",
		zap.String("tree", root.String()),
		zap.Int("rounds", s.Rounds()))
	return root, nil
}

// ParseText tags text and parses the result.
func (p *Parser) ParseText(text string) (*phrase.Phrase, error) {
	return p.Parse(p.tagger.Tag(text))
}

// Tag exposes the configured tagger.
func (p *Parser) Tag(text string) []phrase.Token {
	return p.tagger.Tag(text)
}

// Assemble reparses produced parts into a fresh tree. Parts that are already
// composites are kept as units. When the result is a bare leaf it is wrapped in tag.
func (p *Parser) Assemble(tag phrase.Tag, parts []*phrase.Phrase) *phrase.Phrase {
	if len(parts) == 0 {
		return nil
	}
	root, err := p.ParsePhrases(parts)
	if err != nil || root == nil {
		return nil
	}
	if root.IsLeaf() {
		return phrase.NewComposite(tag, root)
	}
	return root
}
