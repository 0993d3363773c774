// Package grammar holds the English transformation rules, one per phrase variant,
// and assembles them into the rule table the sentence engine runs.
//
// Precedence encodes the order in which attachment decisions settle: noun and
// prepositional attachment first, then verb phrase boundaries, then clause
// assembly, then top-level coordination.
package grammar

import (
	"strings"

	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/sentence"
)

// Precedences, highest first.
const (
	PrecNoun        = 60
	PrecWh          = 60
	PrecAdjective   = 58
	PrecNounPhrase  = 50
	PrecPreposition = 45
	PrecVerb        = 35
	PrecVerbPhrase  = 20
	PrecWhPhrase    = 15
	PrecComma       = 12
	PrecParenthesis = 12
	PrecClause      = 10
	PrecConjunction = -5
)

// Rules returns a fresh table holding the English grammar.
func Rules() *sentence.RuleTable {
	t := sentence.NewRuleTable()
	t.Register(nounLeaf{}, phrase.NN, phrase.NNS, phrase.NNP, phrase.NNPS, phrase.PRP, phrase.CD)
	t.Register(whLeaf{}, phrase.WP, phrase.WDT, phrase.WPS, phrase.WRB)
	t.Register(adjectiveLeaf{}, phrase.JJ, phrase.JJR, phrase.JJS)
	t.Register(nounPhrase{}, phrase.NP)
	t.Register(prepositionLeaf{}, phrase.IN, phrase.TO)
	t.Register(verbLeaf{}, phrase.VB, phrase.VBD, phrase.VBG, phrase.VBN, phrase.VBP, phrase.VBZ, phrase.MD)
	t.Register(verbPhrase{}, phrase.VP)
	t.Register(whPhrase{}, phrase.WHNP, phrase.WHADVP)
	t.Register(comma{}, phrase.Comma)
	t.Register(parenthetical{}, phrase.PRN)
	t.Register(clause{}, phrase.S, phrase.SQ, phrase.SBARQ, phrase.SINV)
	t.Register(conjunction{}, phrase.CC)
	return t
}

// ============================================================================
// Helpers
// ============================================================================

func isLeaf(p *phrase.Phrase, parts ...phrase.Part) bool {
	if p == nil || !p.IsLeaf() {
		return false
	}
	for _, part := range parts {
		if p.Part() == part {
			return true
		}
	}
	return false
}

func isTag(p *phrase.Phrase, tags ...phrase.Tag) bool {
	if p == nil || p.IsLeaf() {
		return false
	}
	for _, t := range tags {
		if p.Tag() == t {
			return true
		}
	}
	return false
}

func isNounLeaf(p *phrase.Phrase) bool {
	return isLeaf(p, phrase.PartNoun, phrase.PartNumber)
}

// isVerbal reports whether p is a verb phrase or a bare verb or modal.
func isVerbal(p *phrase.Phrase) bool {
	return isTag(p, phrase.VP) || isLeaf(p, phrase.PartVerb, phrase.PartModal)
}

func isTerminal(p *phrase.Phrase) bool {
	return isLeaf(p, phrase.PartTerminal) && phrase.IsTerminalWord(p.Word())
}

// terminated reports whether p already carries its sentence-final mark.
func terminated(p *phrase.Phrase) bool {
	return !p.IsLeaf() && phrase.IsTerminalWord(p.LastWord())
}

func isWhClause(p *phrase.Phrase) bool {
	return isTag(p, phrase.SBAR) && isTag(p.First(), phrase.WHNP)
}

var auxiliaries = map[string]bool{
	"be": true, "am": true, "is": true, "are": true, "was": true, "were": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "having": true,
	"do": true, "does": true, "did": true,
	"'s": true, "'re": true, "'m": true, "'ve": true, "'d": true,
}

func isAuxiliaryLeaf(p *phrase.Phrase) bool {
	if isLeaf(p, phrase.PartModal) {
		return true
	}
	return isLeaf(p, phrase.PartVerb) && auxiliaries[strings.ToLower(p.Word())]
}

// isAuxVP reports whether vp holds only auxiliaries and adverbs.
func isAuxVP(vp *phrase.Phrase) bool {
	if !isTag(vp, phrase.VP) {
		return false
	}
	seen := false
	for _, c := range vp.Children() {
		switch {
		case isAuxiliaryLeaf(c):
			seen = true
		case isLeaf(c, phrase.PartAdverb):
		default:
			return false
		}
	}
	return seen
}

func width(ps ...*phrase.Phrase) int {
	n := 0
	for _, p := range ps {
		if p != nil {
			n += len(p.Words())
		}
	}
	return n
}
