package lexicon

import (
	"strings"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

// Synonyms returns candidate replacements for a word. The result may be empty
// and never contains the word itself.
type Synonyms interface {
	Synonyms(word string, part phrase.Part) map[string]struct{}
}

// StaticSynonyms is a map-backed Synonyms. Words are grouped into synsets per part;
// a word may belong to several synsets.
type StaticSynonyms struct {
	// synset index -> members
	sets [][]string
	// part -> normalized word -> synset indices
	index map[phrase.Part]map[string][]int
}

// NewStaticSynonyms creates an empty table
func NewStaticSynonyms() *StaticSynonyms {
	return &StaticSynonyms{
		index: make(map[phrase.Part]map[string][]int),
	}
}

// DefaultSynonyms returns a small English table
func DefaultSynonyms() *StaticSynonyms {
	s := NewStaticSynonyms()
	s.Add(phrase.PartNoun, "dog", "hound", "canine")
	s.Add(phrase.PartNoun, "cat", "feline")
	s.Add(phrase.PartNoun, "house", "home", "dwelling")
	s.Add(phrase.PartNoun, "man", "gentleman", "fellow")
	s.Add(phrase.PartNoun, "car", "automobile", "vehicle")
	s.Add(phrase.PartVerb, "run", "sprint", "dash")
	s.Add(phrase.PartVerb, "walk", "stroll", "amble")
	s.Add(phrase.PartVerb, "see", "notice", "spot")
	s.Add(phrase.PartVerb, "say", "state", "remark")
	s.Add(phrase.PartVerb, "buy", "purchase")
	s.Add(phrase.PartAdjective, "big", "large", "huge")
	s.Add(phrase.PartAdjective, "small", "little", "tiny")
	s.Add(phrase.PartAdjective, "quick", "fast", "rapid")
	s.Add(phrase.PartAdjective, "happy", "glad", "cheerful")
	s.Add(phrase.PartAdverb, "quickly", "rapidly", "swiftly")
	return s
}

// Add registers a synset for a part of speech
func (s *StaticSynonyms) Add(part phrase.Part, words ...string) {
	if len(words) < 2 {
		return
	}
	idx := len(s.sets)
	members := make([]string, 0, len(words))
	byWord := s.index[part]
	if byWord == nil {
		byWord = make(map[string][]int)
		s.index[part] = byWord
	}
	for _, w := range words {
		key := strings.ToLower(w)
		members = append(members, key)
		byWord[key] = appendUnique(byWord[key], idx)
	}
	s.sets = append(s.sets, members)
}

// Synonyms implements Synonyms. PartNone searches every part.
func (s *StaticSynonyms) Synonyms(word string, part phrase.Part) map[string]struct{} {
	key := strings.ToLower(word)
	out := make(map[string]struct{})

	collect := func(byWord map[string][]int) {
		for _, idx := range byWord[key] {
			for _, m := range s.sets[idx] {
				if m != key {
					out[m] = struct{}{}
				}
			}
		}
	}

	if part == phrase.PartNone {
		for _, byWord := range s.index {
			collect(byWord)
		}
		return out
	}
	collect(s.index[part])
	return out
}

func appendUnique(slice []int, item int) []int {
	for _, s := range slice {
		if s == item {
			return slice
		}
	}
	return append(slice, item)
}
