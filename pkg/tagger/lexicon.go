package tagger

import "github.com/kittclouds/parsekit/pkg/phrase"

func (t *Tagger) set(tag phrase.Tag, words ...string) {
	for _, w := range words {
		t.lexicon[w] = tag
	}
}

// loadDefaultLexicon populates the closed word classes and a small set of
// frequent open-class words.
func (t *Tagger) loadDefaultLexicon() {
	// Determiners
	t.set(phrase.DT, "the", "a", "an", "this", "these", "those", "some", "any", "no",
		"every", "each", "all", "both", "another", "either", "neither")
	t.set(phrase.JJ, "few", "many", "much", "most", "other", "several")

	// Possessive pronouns ("her" is resolved from context)
	t.set(phrase.PRPS, "my", "your", "his", "its", "our", "their")

	// Prepositions and subordinators
	t.set(phrase.IN, "in", "on", "at", "for", "with", "by", "from", "of", "about",
		"into", "through", "during", "before", "after", "above", "below", "between", "under", "over",
		"against", "among", "around", "behind", "beside", "beyond", "near", "toward", "towards",
		"upon", "within", "without", "across", "along", "inside", "outside", "throughout",
		"because", "although", "though", "while", "if", "unless", "until", "since", "whether", "than", "like")
	t.set(phrase.TO, "to")

	// be / have / do
	t.set(phrase.VB, "be")
	t.set(phrase.VBZ, "is", "has", "does")
	t.set(phrase.VBP, "are", "am", "have", "do")
	t.set(phrase.VBD, "was", "were", "had", "did")
	t.set(phrase.VBN, "been", "done")
	t.set(phrase.VBG, "being", "having", "doing")

	// Modals
	t.set(phrase.MD, "can", "could", "will", "would", "shall", "should", "may", "might", "must")

	// Conjunctions
	t.set(phrase.CC, "and", "or", "but", "nor", "yet")

	// Pronouns
	t.set(phrase.PRP, "i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
		"myself", "yourself", "himself", "herself", "itself", "ourselves", "themselves")

	// Wh-words
	t.set(phrase.WP, "who", "whom", "what")
	t.set(phrase.WPS, "whose")
	t.set(phrase.WDT, "which")
	t.set(phrase.WRB, "when", "where", "why", "how")
	t.set(phrase.DT, "that")

	t.set(phrase.POS, "'s")
	t.set(phrase.RP, "up", "out", "off", "down", "away")
	t.set(phrase.UH, "oh", "yes", "well", "hello")

	// Common adjectives
	t.set(phrase.JJ, "old", "new", "good", "bad", "great", "small", "large", "big", "little",
		"young", "long", "short", "high", "low", "early", "late", "first", "last", "ancient", "dark",
		"bright", "powerful", "mighty", "wise", "evil", "grey", "black", "white", "red", "blue",
		"green", "golden", "silver", "happy", "sad", "quick", "brown", "lazy", "tall", "cold", "hot")
	t.set(phrase.JJR, "bigger", "smaller", "better", "worse", "older", "younger")
	t.set(phrase.JJS, "biggest", "smallest", "best", "worst", "oldest", "youngest")

	// Common adverbs
	t.set(phrase.RB, "very", "quite", "rather", "really", "too", "just", "only", "not", "n't",
		"now", "then", "here", "there", "always", "never", "often", "sometimes", "slowly",
		"quickly", "suddenly", "finally", "already", "still", "even", "soon", "again", "also")

	// Base verbs; regular inflections are derived from these
	t.set(phrase.VBP, "run", "walk", "bark", "jump", "see", "know", "like", "want", "eat", "go",
		"come", "take", "make", "give", "say", "tell", "think", "find", "leave", "play", "attack",
		"love", "hate", "help", "live", "look", "need", "open", "close", "call", "ask", "work",
		"sleep", "sit", "stand", "read", "write", "speak", "chase", "win", "try", "hit", "get", "buy")

	// Irregular past tense
	t.set(phrase.VBD, "ran", "saw", "knew", "ate", "went", "came", "took", "made", "gave", "said",
		"told", "thought", "found", "left", "slept", "sat", "stood", "wrote", "spoke", "won", "got",
		"bought", "met")

	// Irregular participles
	t.set(phrase.VBN, "seen", "known", "eaten", "gone", "taken", "given", "written", "spoken", "gotten")
}
