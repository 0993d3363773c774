package template

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/kittclouds/parsekit/pkg/match"
	"github.com/kittclouds/parsekit/pkg/phrase"
)

// ============================================================================
// Index - literal prefilter
// ============================================================================

// Index narrows a source list to those whose required literals all occur in the
// input. A literal is required when it sits outside every optional block. The
// check is an exact, case-insensitive word test, so with a spelling-aware
// comparer the index may drop sources that would have matched.
type Index struct {
	sources []*match.Source

	// The AC automaton built from all required literals
	ac       ahocorasick.AhoCorasick
	patterns []string

	// pattern index -> sources requiring it
	postings []*roaring.Bitmap

	// every source position
	all *roaring.Bitmap
}

// NewIndex builds the automaton and postings for sources.
func NewIndex(sources []*match.Source) *Index {
	ix := &Index{
		sources: sources,
		all:     roaring.New(),
	}
	patternIndex := make(map[string]int)

	for i, src := range sources {
		id := uint32(i)
		ix.all.Add(id)
		for _, word := range RequiredLiterals(src.Pattern) {
			idx, exists := patternIndex[word]
			if !exists {
				idx = len(ix.patterns)
				ix.patterns = append(ix.patterns, word)
				patternIndex[word] = idx
				ix.postings = append(ix.postings, roaring.New())
			}
			ix.postings[idx].Add(id)
		}
	}

	if len(ix.patterns) > 0 {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  true,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
		})
		ix.ac = builder.Build(ix.patterns)
	}
	return ix
}

// Len returns the number of indexed sources
func (ix *Index) Len() int { return len(ix.sources) }

// Candidates returns the sources whose required literals all occur among words,
// in their original order.
func (ix *Index) Candidates(words []string) []*match.Source {
	found := roaring.New()
	if len(ix.patterns) > 0 && len(words) > 0 {
		// one space between tokens keeps every word whole for the automaton
		text := " " + strings.ToLower(strings.Join(words, " ")) + " "
		for _, m := range ix.ac.FindAll(text) {
			found.Add(uint32(m.Pattern()))
		}
	}

	missing := roaring.New()
	for idx, postings := range ix.postings {
		if !found.Contains(uint32(idx)) {
			missing.Or(postings)
		}
	}

	keep := ix.all.Clone()
	keep.AndNot(missing)

	out := make([]*match.Source, 0, keep.GetCardinality())
	it := keep.Iterator()
	for it.HasNext() {
		out = append(out, ix.sources[it.Next()])
	}
	return out
}

// CandidatesFor filters by the leaf words of p.
func (ix *Index) CandidatesFor(p *phrase.Phrase) []*match.Source {
	return ix.Candidates(p.Words())
}

// RequiredLiterals returns the distinct lowercase literals outside optional blocks.
func RequiredLiterals(pattern []match.Content) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range pattern {
		lit, ok := c.(match.Literal)
		if !ok {
			continue
		}
		w := strings.ToLower(string(lit))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
