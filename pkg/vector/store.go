// Package vector suggests templates whose wording is close to an input. Each
// template is embedded as a hashed bag of words and kept in an HNSW graph that
// persists through hackpadfs.
package vector

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"

	"github.com/kittclouds/parsekit/pkg/match"
)

// DefaultDimension is the embedding width used when none is given.
const DefaultDimension = 64

var (
	// ErrDimension is returned for a vector of the wrong width
	ErrDimension = errors.New("vector: dimension mismatch")
	// ErrDuplicateID is returned when an id is added twice
	ErrDuplicateID = errors.New("vector: duplicate id")
)

// Embed hashes lowercased words into dim-1 buckets and sets the last component
// to 1, so even an empty bag has a direction.
func Embed(words []string, dim int) []float32 {
	if dim < 2 {
		dim = 2
	}
	vec := make([]float32, dim)
	for _, w := range words {
		w = strings.ToLower(w)
		if w == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%uint32(dim-1)]++
	}
	vec[dim-1] = 1
	return vec
}

// PatternWords returns every literal in pattern, optional blocks included.
func PatternWords(pattern []match.Content) []string {
	var out []string
	for _, c := range pattern {
		switch v := c.(type) {
		case match.Literal:
			out = append(out, string(v))
		case match.Optional:
			out = append(out, PatternWords(v.Contents)...)
		}
	}
	return out
}

// snapshot is the persisted form.
type snapshot struct {
	Dim   int
	IDs   []string
	Nodes hnsw.Nodes[vector.VF32]
}

// Store manages the HNSW index and its persistence. Graph keys are positions
// in ids plus one.
type Store struct {
	index *hnsw.HNSW[vector.VF32]
	dim   int
	ids   []string
	seen  map[string]bool

	fs   hackpadfs.FS
	path string
	mu   sync.RWMutex
}

// NewStore opens the index at path, or starts an empty one of width dim when
// the file does not exist. A stored index keeps its own width.
func NewStore(fs hackpadfs.FS, path string, dim int) (*Store, error) {
	if dim <= 0 {
		dim = DefaultDimension
	}
	s := &Store{fs: fs, path: path, dim: dim}

	err := s.Load()
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, hackpadfs.ErrNotExist):
		s.reset()
		return s, nil
	default:
		return nil, err
	}
}

func (s *Store) reset() {
	s.index = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	s.ids = nil
	s.seen = map[string]bool{}
}

// Dimension returns the embedding width
func (s *Store) Dimension() int { return s.dim }

// Len returns the number of stored templates
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Add stores the embedding of words under id.
func (s *Store) Add(id string, words []string) error {
	return s.AddVector(id, Embed(words, s.dim))
}

// AddSource stores a source under its ID using its pattern literals.
func (s *Store) AddSource(src *match.Source) error {
	return s.Add(src.ID, PatternWords(src.Pattern))
}

// AddVector stores a raw vector under id.
func (s *Store) AddVector(id string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(vec) != s.dim {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimension, s.dim, len(vec))
	}
	if s.seen[id] {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	s.ids = append(s.ids, id)
	s.seen[id] = true
	s.index.Insert(vector.VF32{Key: uint32(len(s.ids)), Vec: vec})
	return nil
}

// Search returns up to k template ids nearest to words, closest first.
func (s *Store) Search(words []string, k int) ([]string, error) {
	return s.SearchVector(Embed(words, s.dim), k)
}

// SearchVector returns up to k ids nearest to vec.
func (s *Store) SearchVector(vec []float32, k int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(vec) != s.dim {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimension, s.dim, len(vec))
	}
	if len(s.ids) == 0 || k <= 0 {
		return nil, nil
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}

	results := s.index.Search(vector.VF32{Vec: vec}, k, ef)
	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.Key == 0 || int(r.Key) > len(s.ids) {
			continue
		}
		out = append(out, s.ids[r.Key-1])
	}
	return out, nil
}

// Save persists the index to FS.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{Dim: s.dim, IDs: s.ids, Nodes: s.index.Nodes()}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := hackpadfs.WriteFullFile(s.fs, s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// Load reads the index from FS, replacing the in-memory one.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fs == nil || s.path == "" {
		return hackpadfs.ErrNotExist
	}
	content, err := hackpadfs.ReadFile(s.fs, s.path)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode index: %w", err)
	}

	s.index = hnsw.FromNodes[vector.VF32](vector.SurfaceVF32(kvector.Cosine()), snap.Nodes)
	s.dim = snap.Dim
	s.ids = snap.IDs
	s.seen = make(map[string]bool, len(snap.IDs))
	for _, id := range snap.IDs {
		s.seen[id] = true
	}
	return nil
}
