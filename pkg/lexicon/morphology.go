// Package lexicon holds the word-level services the matcher consults: morphology,
// synonyms and surface-form comparison. The implementations are small static
// tables; larger databases plug in through the interfaces.
package lexicon

import (
	"strings"

	"github.com/kittclouds/parsekit/pkg/phrase"
)

// Morphology maps between base forms and inflections. Unknown words come back
// unchanged.
type Morphology interface {
	// Inflect returns base in the form named by a Penn tag (VBZ, VBD, VBN, VBG, NNS).
	Inflect(base string, form phrase.Tag) string
	// BaseForm strips inflection: "ran" -> "run", "dogs" -> "dog".
	BaseForm(word string) string
	IsTransitive(verb string) bool
}

// Transitivity of a verb
type Transitivity int

const (
	Intransitive Transitivity = iota
	Transitive
	Ditransitive
)

type irregular struct {
	past       string
	participle string
}

// irregularVerbs: base -> (past, participle)
var irregularVerbs = map[string]irregular{
	"be":    {"was", "been"},
	"have":  {"had", "had"},
	"do":    {"did", "done"},
	"go":    {"went", "gone"},
	"run":   {"ran", "run"},
	"see":   {"saw", "seen"},
	"eat":   {"ate", "eaten"},
	"take":  {"took", "taken"},
	"give":  {"gave", "given"},
	"come":  {"came", "come"},
	"know":  {"knew", "known"},
	"make":  {"made", "made"},
	"say":   {"said", "said"},
	"tell":  {"told", "told"},
	"think": {"thought", "thought"},
	"find":  {"found", "found"},
	"leave": {"left", "left"},
	"get":   {"got", "gotten"},
	"write": {"wrote", "written"},
	"speak": {"spoke", "spoken"},
	"sit":   {"sat", "sat"},
	"stand": {"stood", "stood"},
	"sleep": {"slept", "slept"},
	"win":   {"won", "won"},
	"buy":   {"bought", "bought"},
	"meet":  {"met", "met"},
	"hit":   {"hit", "hit"},
	"read":  {"read", "read"},
	"slay":  {"slew", "slain"},
	"fight": {"fought", "fought"},
}

var irregularNouns = map[string]string{
	"man":    "men",
	"woman":  "women",
	"child":  "children",
	"mouse":  "mice",
	"foot":   "feet",
	"tooth":  "teeth",
	"person": "people",
	"sheep":  "sheep",
}

// verbTransitivity is a static verb -> transitivity table
var verbTransitivity = map[string]Transitivity{
	// Combat
	"attack": Transitive,
	"defeat": Transitive,
	"fight":  Transitive,
	"kill":   Transitive,
	"slay":   Transitive,
	"hit":    Transitive,
	"chase":  Transitive,

	// Movement
	"arrive":  Intransitive,
	"depart":  Intransitive,
	"travel":  Intransitive,
	"go":      Intransitive,
	"come":    Intransitive,
	"run":     Intransitive,
	"walk":    Intransitive,
	"leave":   Transitive,
	"visit":   Transitive,

	// Perception and knowledge
	"see":      Transitive,
	"know":     Transitive,
	"find":     Transitive,
	"learn":    Transitive,
	"discover": Transitive,
	"reveal":   Transitive,

	// Transfer
	"give": Ditransitive,
	"tell": Ditransitive,
	"send": Ditransitive,
	"show": Ditransitive,
	"take": Transitive,
	"buy":  Transitive,
	"make": Transitive,
	"eat":  Transitive,
	"love": Transitive,
	"hate": Transitive,
	"want": Transitive,
	"like": Transitive,

	// States
	"sleep": Intransitive,
	"sit":   Intransitive,
	"stand": Intransitive,
	"die":   Intransitive,
	"bark":  Intransitive,
	"live":  Intransitive,
	"be":    Intransitive,
}

// SuffixMorphology is an English Morphology backed by irregular tables and
// regular suffix rules.
type SuffixMorphology struct {
	past       map[string]string // inflected -> base
	plural     map[string]string // plural -> singular
	transitive map[string]Transitivity
}

// NewSuffixMorphology builds the reverse lookup tables.
func NewSuffixMorphology() *SuffixMorphology {
	m := &SuffixMorphology{
		past:       make(map[string]string, len(irregularVerbs)*2),
		plural:     make(map[string]string, len(irregularNouns)),
		transitive: verbTransitivity,
	}
	for base, forms := range irregularVerbs {
		m.past[forms.past] = base
		m.past[forms.participle] = base
	}
	// "is", "are" and friends are not derivable from suffixes
	for _, w := range []string{"is", "are", "am", "were", "being"} {
		m.past[w] = "be"
	}
	m.past["has"] = "have"
	m.past["does"] = "do"
	for sing, pl := range irregularNouns {
		m.plural[pl] = sing
	}
	return m
}

// Inflect implements Morphology
func (m *SuffixMorphology) Inflect(base string, form phrase.Tag) string {
	lower := strings.ToLower(base)
	irr, isIrregular := irregularVerbs[lower]

	switch form {
	case phrase.VBD:
		if isIrregular {
			return irr.past
		}
		return pastRegular(lower)
	case phrase.VBN:
		if isIrregular {
			return irr.participle
		}
		return pastRegular(lower)
	case phrase.VBZ:
		switch lower {
		case "be":
			return "is"
		case "have":
			return "has"
		}
		return sibilantS(lower)
	case phrase.VBG:
		if lower == "be" {
			return "being"
		}
		if strings.HasSuffix(lower, "e") && !strings.HasSuffix(lower, "ee") && len(lower) > 2 {
			return lower[:len(lower)-1] + "ing"
		}
		return lower + "ing"
	case phrase.NNS, phrase.NNPS:
		if pl, ok := irregularNouns[lower]; ok {
			return pl
		}
		return sibilantS(lower)
	case phrase.VB, phrase.VBP, phrase.NN:
		return base
	}
	return base
}

func pastRegular(w string) string {
	switch {
	case strings.HasSuffix(w, "e"):
		return w + "d"
	case len(w) > 2 && strings.HasSuffix(w, "y") && !isVowel(w[len(w)-2]):
		return w[:len(w)-1] + "ied"
	}
	return w + "ed"
}

func sibilantS(w string) string {
	switch {
	case hasSuffix(w, "s", "x", "z", "ch", "sh", "o"):
		return w + "es"
	case len(w) > 2 && strings.HasSuffix(w, "y") && !isVowel(w[len(w)-2]):
		return w[:len(w)-1] + "ies"
	}
	return w + "s"
}

// BaseForm implements Morphology
func (m *SuffixMorphology) BaseForm(word string) string {
	lower := strings.ToLower(word)
	if base, ok := m.past[lower]; ok {
		return base
	}
	if sing, ok := m.plural[lower]; ok {
		return sing
	}
	if _, ok := irregularVerbs[lower]; ok {
		return lower
	}

	// Remove common suffixes
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		return lower[:len(lower)-3] + "y"
	case strings.HasSuffix(lower, "ied") && len(lower) > 4:
		return lower[:len(lower)-3] + "y"
	case strings.HasSuffix(lower, "ing") && len(lower) > 5:
		return m.restoreE(lower[:len(lower)-3])
	case strings.HasSuffix(lower, "ed") && len(lower) > 4:
		return m.restoreE(lower[:len(lower)-2])
	case hasSuffix(lower, "ches", "shes", "sses", "xes", "zes", "oes") && len(lower) > 4:
		return lower[:len(lower)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 3:
		return lower[:len(lower)-1]
	}
	return word
}

// restoreE picks between "walk" and "chase" for a stripped stem.
func (m *SuffixMorphology) restoreE(stem string) string {
	if _, ok := m.transitive[stem]; ok {
		return stem
	}
	if _, ok := m.transitive[stem+"e"]; ok {
		return stem + "e"
	}
	// doubled consonant: "stopped" -> "stop"
	if n := len(stem); n > 2 && stem[n-1] == stem[n-2] && !isVowel(stem[n-1]) && stem[n-1] != 's' && stem[n-1] != 'l' {
		return stem[:n-1]
	}
	return stem
}

// IsTransitive implements Morphology. Unknown verbs are treated as transitive.
func (m *SuffixMorphology) IsTransitive(verb string) bool {
	t, ok := m.transitive[m.BaseForm(verb)]
	if !ok {
		return true
	}
	return t != Intransitive
}

// Transitivity returns the table entry for verb and whether it was known.
func (m *SuffixMorphology) Transitivity(verb string) (Transitivity, bool) {
	t, ok := m.transitive[m.BaseForm(verb)]
	return t, ok
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func hasSuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
