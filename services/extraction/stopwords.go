package extraction

// stopWords are common English function words excluded from keyword
// extraction: articles, auxiliary verbs, prepositions, conjunctions and the
// interrogative openers that appear in nearly every exam question.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"had": true, "has": true, "have": true, "was": true, "were": true,
	"will": true, "with": true, "this": true, "that": true, "these": true,
	"those": true, "from": true, "into": true, "about": true, "between": true,
	"does": true, "did": true, "doing": true, "been": true, "being": true,
	"what": true, "which": true, "when": true, "where": true, "who": true,
	"whom": true, "why": true, "how": true, "its": true, "their": true,
	"them": true, "they": true, "then": true, "than": true, "also": true,
	"each": true, "such": true, "some": true, "most": true, "more": true,
	"very": true, "just": true, "only": true, "both": true, "either": true,
	"neither": true, "your": true, "our": true, "out": true,
	"upon": true, "per": true, "via": true, "would": true, "should": true,
	"could": true, "may": true, "might": true, "must": true, "shall": true,
}
