// Package sentence implements the worklist engine that rewrites a flat run of
// phrases into a single tree by applying per-tag rules to a fixpoint.
package sentence

import (
	"sort"

	"go.uber.org/zap"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

const (
	// DefaultIterationBudget bounds the cascade that follows one top-level attempt.
	DefaultIterationBudget = 20

	baseRounds     = 64
	roundsPerToken = 16
)

// Attempt identifies a combination a rule has already tried, so that re-evaluation
// after nearby edits does not retry it forever.
type Attempt struct {
	Neighbor *phrase.Phrase
	Target   phrase.Tag
	Width    int
}

// Sentence owns the live phrase sequence of one parse. It is not safe for
// concurrent use.
type Sentence struct {
	pending   []*phrase.Phrase
	completed []*phrase.Phrase

	rules    *RuleTable
	attempts map[*phrase.Phrase]map[Attempt]struct{}
	resets   map[phrase.Tag]bool
	logger   *zap.Logger

	budget    int
	maxRounds int
	rounds    int
}

// Option configures a Sentence
type Option func(*Sentence)

// WithRules sets the rule table
func WithRules(t *RuleTable) Option {
	return func(s *Sentence) { s.rules = t }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Sentence) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIterationBudget overrides the per-attempt cascade budget
func WithIterationBudget(n int) Option {
	return func(s *Sentence) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithMaxRounds caps successful rounds before the engine gives up on convergence
// and falls back to fragmentation.
func WithMaxRounds(n int) Option {
	return func(s *Sentence) {
		if n > 0 {
			s.maxRounds = n
		}
	}
}

// WithResetTags lists the tags whose attempt memory is cleared when a clause is completed.
func WithResetTags(tags ...phrase.Tag) Option {
	return func(s *Sentence) {
		s.resets = make(map[phrase.Tag]bool, len(tags))
		for _, t := range tags {
			s.resets[t] = true
		}
	}
}

// New creates a Sentence over the initial phrases. The slice is copied; the phrases
// themselves become owned by the Sentence.
func New(phrases []*phrase.Phrase, opts ...Option) *Sentence {
	s := &Sentence{
		pending:   append(make([]*phrase.Phrase, 0, len(phrases)), phrases...),
		rules:     NewRuleTable(),
		attempts:  make(map[*phrase.Phrase]map[Attempt]struct{}),
		resets:    map[phrase.Tag]bool{phrase.VP: true},
		logger:    zap.NewNop(),
		budget:    DefaultIterationBudget,
		maxRounds: baseRounds + roundsPerToken*len(phrases),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Driver
// ============================================================================

// Run applies rules until at most one phrase is pending and returns the root.
// It returns nil only when the sentence was created empty.
func (s *Sentence) Run() *phrase.Phrase {
	for len(s.pending) > 1 {
		if s.rounds < s.maxRounds && s.round() {
			s.rounds++
			continue
		}
		if s.rounds >= s.maxRounds {
			s.logger.Debug("round cap reached", zap.Int("rounds", s.rounds))
		}
		if !s.fragment() {
			break
		}
	}
	return s.finish()
}

type bucket struct {
	prec    int
	phrases []*phrase.Phrase
}

// buckets groups pending phrases by precedence, highest first, each bucket
// ordered right to left.
func (s *Sentence) buckets() []bucket {
	byPrec := make(map[int]*bucket)
	var out []*bucket
	for i := len(s.pending) - 1; i >= 0; i-- {
		p := s.pending[i]
		prec := s.rules.Precedence(p)
		b, ok := byPrec[prec]
		if !ok {
			b = &bucket{prec: prec}
			byPrec[prec] = b
			out = append(out, b)
		}
		b.phrases = append(b.phrases, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].prec > out[j].prec })

	res := make([]bucket, len(out))
	for i, b := range out {
		res[i] = *b
	}
	return res
}

// round runs one outer iteration and reports whether any transform applied.
func (s *Sentence) round() bool {
	for _, b := range s.buckets() {
		for _, p := range b.phrases {
			if s.IndexOf(p) < 0 {
				continue
			}
			budget := s.budget
			if s.attempt(p, &budget) {
				return true
			}
		}
	}
	return false
}

func (s *Sentence) attempt(p *phrase.Phrase, budget *int) bool {
	if *budget <= 0 {
		s.logger.Debug("iteration budget exhausted", zap.String("phrase", p.String()))
		return false
	}
	*budget--

	pos := s.IndexOf(p)
	if pos < 0 {
		return false
	}
	rule := s.rules.Lookup(p.Tag())
	before := p.String()
	if !rule.Transform(s, p) {
		return false
	}
	s.logger.Debug("transform applied",
		zap.String("tag", string(p.Tag())),
		zap.String("phrase", before),
		zap.Int("pending", len(s.pending)))

	s.cascade(p, pos, rule.Precedence(), budget)
	return true
}

// cascade re-evaluates the neighbourhood of a successful transform: the right
// neighbour when it ranks at least as high, the left neighbour when it ranks
// strictly higher, then p itself if it survived.
func (s *Sentence) cascade(p *phrase.Phrase, pos, prec int, budget *int) {
	if i := s.IndexOf(p); i >= 0 {
		pos = i
	}
	if next := s.At(pos + 1); next != nil && s.rules.Precedence(next) >= prec {
		s.attempt(next, budget)
	}
	if i := s.IndexOf(p); i >= 0 {
		pos = i
	}
	if prev := s.At(pos - 1); prev != nil && s.rules.Precedence(prev) > prec {
		s.attempt(prev, budget)
	}
	if s.IndexOf(p) >= 0 {
		s.attempt(p, budget)
	}
}

// fragment forces progress on a stuck sentence. It cuts everything up to the first
// sentence end into a fragment and reports true, or wraps the remainder into one
// fragment and reports false.
func (s *Sentence) fragment() bool {
	for k, p := range s.pending {
		if !s.endsSentence(k) {
			continue
		}
		cut := append([]*phrase.Phrase(nil), s.pending[:k+1]...)
		frag := cut[0]
		if len(cut) > 1 || !frag.IsWhole() {
			frag = s.Combine(phrase.FRAG, cut...)
		}
		s.logger.Debug("fragment cut", zap.String("fragment", frag.String()), zap.String("end", p.Text()))
		s.AddFirstToCompletes()
		return true
	}
	if len(s.pending) > 0 {
		frag := s.Combine(phrase.FRAG, append([]*phrase.Phrase(nil), s.pending...)...)
		s.logger.Debug("fragment remainder", zap.String("fragment", frag.String()))
	}
	return false
}

// endsSentence reports whether pending[k] ends with a terminal mark that is not an
// abbreviation point after an initial such as "A.".
func (s *Sentence) endsSentence(k int) bool {
	p := s.pending[k]
	if !phrase.IsTerminalWord(p.LastWord()) {
		return false
	}
	var prior string
	if leaves := p.Leaves(); len(leaves) >= 2 {
		prior = leaves[len(leaves)-2].Word()
	} else if k > 0 {
		prior = s.pending[k-1].LastWord()
	}
	return !phrase.IsInitial(prior)
}

func (s *Sentence) finish() *phrase.Phrase {
	if len(s.completed) == 0 {
		if len(s.pending) == 0 {
			return nil
		}
		return s.pending[0]
	}
	if len(s.completed) == 1 && len(s.pending) == 0 {
		return s.completed[0]
	}
	kids := append(append([]*phrase.Phrase(nil), s.completed...), s.pending...)
	s.completed = nil
	s.pending = nil
	return phrase.NewComposite(phrase.PARA, kids...)
}

// ============================================================================
// Attempt memory
// ============================================================================

// Attempted reports whether p has already tried a.
func (s *Sentence) Attempted(p *phrase.Phrase, a Attempt) bool {
	_, ok := s.attempts[p][a]
	return ok
}

// Remember records that p tried a.
func (s *Sentence) Remember(p *phrase.Phrase, a Attempt) {
	m, ok := s.attempts[p]
	if !ok {
		m = make(map[Attempt]struct{})
		s.attempts[p] = m
	}
	m[a] = struct{}{}
}

// Forget clears p's attempt memory.
func (s *Sentence) Forget(p *phrase.Phrase) {
	delete(s.attempts, p)
}

// ============================================================================
// Inspection
// ============================================================================

// Pending returns a copy of the pending phrases
func (s *Sentence) Pending() []*phrase.Phrase {
	return append([]*phrase.Phrase(nil), s.pending...)
}

// Completed returns a copy of the completed phrases
func (s *Sentence) Completed() []*phrase.Phrase {
	return append([]*phrase.Phrase(nil), s.completed...)
}

// Len returns the number of pending phrases
func (s *Sentence) Len() int { return len(s.pending) }

// Rounds returns the number of successful outer iterations so far
func (s *Sentence) Rounds() int { return s.rounds }
