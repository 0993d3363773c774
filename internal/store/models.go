// Package store persists template libraries. SQLiteStore is the durable
// implementation; MemStore backs tests and one-shot CLI runs.
package store

import (
	"fmt"

	"github.com/kittclouds/parsekit/pkg/template"
)

// Template is one stored pattern/template pair. Every Put of an existing id
// adds a version; reads return the current one.
type Template struct {
	ID         string  `json:"id"`
	Version    int     `json:"version"`
	Pattern    string  `json:"pattern"`
	Template   string  `json:"template"`
	Score      float64 `json:"score"`
	Provenance string  `json:"provenance,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
	UpdatedAt  int64   `json:"updatedAt"`
}

// FromDefinition converts a library entry.
func FromDefinition(d template.Definition) *Template {
	return &Template{
		ID:         d.ID,
		Pattern:    d.Pattern,
		Template:   d.Template,
		Score:      d.Score,
		Provenance: d.Provenance,
	}
}

// Definition converts back to a library entry.
func (t *Template) Definition() template.Definition {
	return template.Definition{
		ID:         t.ID,
		Pattern:    t.Pattern,
		Template:   t.Template,
		Score:      t.Score,
		Provenance: t.Provenance,
	}
}

// Storer defines the interface for template persistence.
type Storer interface {
	Put(t *Template) error
	Get(id string) (*Template, error)
	Delete(id string) error
	All() ([]*Template, error)
	ListByProvenance(provenance string) ([]*Template, error)
	History(id string) ([]*Template, error)
	Count() (int, error)

	// Lifecycle
	Close() error
}

// ImportLibrary puts every definition of lib and returns how many were stored.
func ImportLibrary(s Storer, lib *template.Library) (int, error) {
	for i, d := range lib.Templates {
		if err := s.Put(FromDefinition(d)); err != nil {
			return i, fmt.Errorf("failed to store template %q: %w", d.ID, err)
		}
	}
	return len(lib.Templates), nil
}

// ExportLibrary reads the current version of every template.
func ExportLibrary(s Storer) (*template.Library, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	lib := &template.Library{Templates: make([]template.Definition, 0, len(all))}
	for _, t := range all {
		lib.Templates = append(lib.Templates, t.Definition())
	}
	return lib, nil
}
