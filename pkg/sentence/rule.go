package sentence

import (
	"github.com/kittclouds/parsekit/pkg/phrase"
)

// Rule is the transformation a phrase variant proposes from its current position.
// Transform either performs exactly one structural edit through the Sentence and
// returns true, or leaves the sentence untouched and returns false.
type Rule interface {
	Precedence() int
	Transform(s *Sentence, p *phrase.Phrase) bool
}

// RuleFunc adapts a function and a precedence into a Rule.
type RuleFunc struct {
	Prec int
	Fn   func(s *Sentence, p *phrase.Phrase) bool
}

// Precedence returns the static precedence
func (r RuleFunc) Precedence() int { return r.Prec }

// Transform calls Fn
func (r RuleFunc) Transform(s *Sentence, p *phrase.Phrase) bool {
	if r.Fn == nil {
		return false
	}
	return r.Fn(s, p)
}

// inert never applies. Used for tags with no registered rule.
var inert = RuleFunc{}

// RuleTable maps tags to rules. Build it before parsing starts; lookups are
// read-only and safe to share between concurrent parses.
type RuleTable struct {
	rules map[phrase.Tag]Rule
}

// NewRuleTable creates an empty table
func NewRuleTable() *RuleTable {
	return &RuleTable{rules: make(map[phrase.Tag]Rule)}
}

// Register installs r for each tag, replacing any previous rule.
func (t *RuleTable) Register(r Rule, tags ...phrase.Tag) *RuleTable {
	for _, tag := range tags {
		t.rules[tag] = r
	}
	return t
}

// Lookup returns the rule for tag, or an inert rule.
func (t *RuleTable) Lookup(tag phrase.Tag) Rule {
	if t == nil {
		return inert
	}
	if r, ok := t.rules[tag]; ok {
		return r
	}
	return inert
}

// Precedence returns the precedence of p's rule.
func (t *RuleTable) Precedence(p *phrase.Phrase) int {
	return t.Lookup(p.Tag()).Precedence()
}

// Tags returns the number of registered tags
func (t *RuleTable) Tags() int {
	return len(t.rules)
}
