package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kittclouds/parsekit/pkg/coderack"
	"github.com/kittclouds/parsekit/pkg/lexicon"
	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/tagger"
)

var (
	// ErrNilInput is returned when Match or MatchAndProduce receives no phrase.
	ErrNilInput = errors.New("match: nil input phrase")
	// ErrNilSource is returned when Match or MatchAndProduce receives a nil source.
	ErrNilSource = errors.New("match: nil source")
)

const (
	// DefaultStepBudget caps the codelets one session may run.
	DefaultStepBudget = 10000
	// DefaultWorkers is the number of sessions MatchAndProduce runs at once.
	DefaultWorkers = 4
)

// TextTagger turns template literals into tagged tokens.
type TextTagger interface {
	Tag(text string) []phrase.Token
}

// Matcher matches phrases against sources. It holds no per-match state and is
// safe for concurrent use; every Match runs its own session.
type Matcher struct {
	comparer  lexicon.WordComparer
	tagger    TextTagger
	assembler Assembler
	logger    *zap.Logger
	budget    int
	workers   int
}

// Option configures a Matcher
type Option func(*Matcher)

// WithComparer sets the literal comparer (default: case-insensitive exact)
func WithComparer(c lexicon.WordComparer) Option {
	return func(m *Matcher) { m.comparer = c }
}

// WithTagger sets the tagger used for template literals
func WithTagger(t TextTagger) Option {
	return func(m *Matcher) { m.tagger = t }
}

// WithAssembler sets how produced parts become one phrase
func WithAssembler(a Assembler) Option {
	return func(m *Matcher) { m.assembler = a }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStepBudget caps the codelets per session. 0 disables the cap.
func WithStepBudget(n int) Option {
	return func(m *Matcher) { m.budget = n }
}

// WithWorkers sets how many sessions MatchAndProduce runs concurrently
func WithWorkers(n int) Option {
	return func(m *Matcher) { m.workers = n }
}

// New creates a Matcher
func New(opts ...Option) *Matcher {
	m := &Matcher{
		comparer:  lexicon.ExactComparer{},
		assembler: WrapAssembler{},
		logger:    zap.NewNop(),
		budget:    DefaultStepBudget,
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tagger == nil {
		m.tagger = tagger.New()
	}
	if m.workers < 1 {
		m.workers = 1
	}
	return m
}

// Match runs one session of src's pattern against input. It returns the
// bindings and true on a match; a non-match is (nil, false, nil). Errors are
// ErrNilInput, ErrNilSource, coderack.ErrBudgetExhausted (wrapped) and context errors.
func (m *Matcher) Match(ctx context.Context, input *phrase.Phrase, src *Source) (*Context, bool, error) {
	if input == nil {
		return nil, false, ErrNilInput
	}
	if src == nil {
		return nil, false, ErrNilSource
	}
	s := m.newSession(src)
	return s.run(ctx, input)
}

// MatchPattern matches an ad hoc pattern.
func (m *Matcher) MatchPattern(ctx context.Context, input *phrase.Phrase, pattern ...Content) (*Context, bool, error) {
	return m.Match(ctx, input, &Source{ID: "pattern", Pattern: pattern})
}

// Result is the winning production of MatchAndProduce.
type Result struct {
	Source   *Source
	Phrase   *phrase.Phrase
	Bindings *Context
	Session  string
}

// MatchAndProduce tries every source against input and returns the production of
// the highest-scoring match; ties go to the earlier source. Sessions run
// concurrently, each single-threaded on its own rack. A session that runs out of
// budget counts as a non-match.
func (m *Matcher) MatchAndProduce(ctx context.Context, input *phrase.Phrase, sources []*Source) (*Result, bool, error) {
	if input == nil {
		return nil, false, ErrNilInput
	}
	for i, src := range sources {
		if src == nil {
			return nil, false, fmt.Errorf("source %d: %w", i, ErrNilSource)
		}
	}

	results := make([]*Result, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i, src := range sources {
		g.Go(func() error {
			s := m.newSession(src)
			bindings, ok, err := s.run(gctx, input)
			if errors.Is(err, coderack.ErrBudgetExhausted) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("source %q: %w", src.ID, err)
			}
			if !ok {
				return nil
			}
			produced := m.Produce(src, bindings, input.Tag())
			if produced == nil {
				s.logger.Debug("production empty")
				return nil
			}
			results[i] = &Result{Source: src, Phrase: produced, Bindings: bindings, Session: s.id}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	var best *Result
	for _, r := range results {
		if r != nil && (best == nil || r.Source.Score > best.Source.Score) {
			best = r
		}
	}
	if best == nil {
		return nil, false, nil
	}
	m.logger.Debug("match selected",
		zap.String("source", best.Source.ID),
		zap.String("session", best.Session),
		zap.String("produced", best.Phrase.String()))
	return best, true, nil
}

func (m *Matcher) newSession(src *Source) *session {
	id := uuid.NewString()
	logger := m.logger.With(zap.String("session", id), zap.String("source", src.ID))
	return &session{
		id:     id,
		m:      m,
		src:    src,
		logger: logger,
		rack:   coderack.New(coderack.WithBudget(m.budget), coderack.WithLogger(logger)),
	}
}
