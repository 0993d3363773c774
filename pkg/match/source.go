package match

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPattern is returned for a source whose pattern has no items
	ErrEmptyPattern = errors.New("match: empty pattern")
	// ErrUnboundRef is returned when a template refers to a name the pattern never binds
	ErrUnboundRef = errors.New("match: template reference is not bound by the pattern")
	// ErrTemplateContent is returned for pattern-only items in a template
	ErrTemplateContent = errors.New("match: content not allowed in a template")
)

// Source pairs a pattern with the template produced when it matches.
type Source struct {
	ID         string
	Pattern    []Content
	Template   []Content
	Score      float64
	Provenance string
}

// NewSource validates the pair. Every template reference outside an optional
// template block must be bound by a non-optional pattern item; references inside
// optional blocks need only be bound somewhere in the pattern.
func NewSource(id string, pattern, template []Content, score float64, provenance string) (*Source, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("source %q: %w", id, ErrEmptyPattern)
	}

	required := map[string]bool{}
	maybe := map[string]bool{}
	collectBindings(pattern, false, required, maybe)

	if err := checkTemplate(template, false, required, maybe); err != nil {
		return nil, fmt.Errorf("source %q: %w", id, err)
	}

	return &Source{
		ID:         id,
		Pattern:    pattern,
		Template:   template,
		Score:      score,
		Provenance: provenance,
	}, nil
}

// MustSource is NewSource that panics, for static tables and tests.
func MustSource(id string, pattern, template []Content, score float64) *Source {
	s, err := NewSource(id, pattern, template, score, "")
	if err != nil {
		panic(err)
	}
	return s
}

// String renders "pattern => template"
func (s *Source) String() string {
	return Render(s.Pattern) + " => " + Render(s.Template)
}

func collectBindings(contents []Content, optional bool, required, maybe map[string]bool) {
	add := func(name string) {
		if optional {
			maybe[name] = true
		} else {
			required[name] = true
		}
	}
	for _, c := range contents {
		switch c := c.(type) {
		case Star:
			add(c.Key())
		case Placeholder:
			add(c.Key())
		case Optional:
			collectBindings(c.Contents, true, required, maybe)
		case Variable:
			add(c.Name())
		case Agent:
			add(c.Name())
		}
	}
}

func checkTemplate(contents []Content, optional bool, required, maybe map[string]bool) error {
	for _, c := range contents {
		switch c := c.(type) {
		case Literal:
		case Ref:
			if required[c.Name] {
				continue
			}
			if optional && maybe[c.Name] {
				continue
			}
			return fmt.Errorf("%w: %s", ErrUnboundRef, c)
		case Optional:
			if err := checkTemplate(c.Contents, true, required, maybe); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrTemplateContent, c)
		}
	}
	return nil
}
