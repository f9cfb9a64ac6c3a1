package extraction

import (
	"regexp"
	"strings"
)

// questionKeywords are the imperative/interrogative openers that mark a line
// as a likely exam question even without numbering.
var questionKeywords = []string{
	"Explain", "Define", "Describe", "What", "How", "Why", "Compare",
	"Differentiate", "List", "State", "Derive", "Prove", "Calculate",
	"Find", "Solve", "Discuss", "Enumerate", "Illustrate", "Analyze",
	"Evaluate", "Justify", "Examine",
}

// numericalLeadVerbs open numerical-problem statements ("3. Calculate ...").
var numericalLeadVerbs = []string{
	"Calculate", "Find", "Determine", "Compute", "Solve", "Evaluate",
}

var (
	keywordAlt     = strings.Join(questionKeywords, "|")
	numericLeadAlt = strings.Join(numericalLeadVerbs, "|")
)

// questionPattern is one entry of the ordered pattern battery. The id is for
// diagnostics only; group selects the capture holding the question body, and
// minLen (when > 0) is a minimum body length checked after matching, not
// counting a trailing terminator.
type questionPattern struct {
	id     string
	re     *regexp.Regexp
	group  int
	minLen int
}

// questionPatterns is the ordered battery applied to normalized text. All
// patterns are line-anchored; matches from every pattern are unioned and
// deduplicated after cleaning.
var questionPatterns = []questionPattern{
	{id: "numbered-direct", re: regexp.MustCompile(`(?m)^\s*\d+\.\s*([^\n]*?\?)`), group: 1},
	{id: "q-numbered", re: regexp.MustCompile(`(?mi)^\s*Q\.?\s*\d+\s*[.)]\s*([^\n]*?\?)`), group: 1},
	{id: "letter-paren", re: regexp.MustCompile(`(?m)^\s*\([a-z]\)\s*([^\n]*?\?)`), group: 1},
	{id: "roman-paren", re: regexp.MustCompile(`(?m)^\s*\((?:i{1,3}|iv|vi{0,3}|ix|x)\)\s*([^\n]*?\?)`), group: 1},
	{id: "bracket-numbered", re: regexp.MustCompile(`(?m)^\s*\[\d+\]\s*([^\n]*?\?)`), group: 1},
	{id: "keyword-question", re: regexp.MustCompile(`(?mi)^\s*((?:` + keywordAlt + `)\b[^\n]*\?)`), group: 1},
	{id: "keyword-imperative", re: regexp.MustCompile(`(?mi)^\s*((?:` + keywordAlt + `)\b[^\n?]*\.)\s*$`), group: 1, minLen: 20},
	{id: "qno-numbered", re: regexp.MustCompile(`(?mi)^\s*Q\s*no\.?\s*\d+\s*[.):\-]?\s*([^\n]+)`), group: 1},
	{id: "short-note", re: regexp.MustCompile(`(?mi)^\s*(Write\s+(?:a\s+note|(?:short\s+)?notes?)\s+on\s+[^\n]+)`), group: 1},
	{id: "numerical-lead", re: regexp.MustCompile(`(?mi)^\s*\d+\.\s*((?:` + numericLeadAlt + `)\b[^\n]+)`), group: 1},
}

var (
	// Numbering/lettering prefix left over from the match: runs of digits,
	// dots, brackets, parens, Q markers and colons before the question body.
	leadingMarkerRe = regexp.MustCompile(`^[\s\d.)(\[\]Qq:]+`)

	// A lowercase sub-part label like "a)" or a roman "ii)" that the
	// character-class strip above cannot reach.
	letterLabelRe = regexp.MustCompile(`^[a-z]{1,3}\)\s+`)

	// Mark-allocation annotations in either bracket style.
	marksAnnotationRe = regexp.MustCompile(`(?i)[\[(]\s*\d+\s*marks?\s*[\])]`)

	// Fallback line-scan checks.
	keywordOpenerRe  = regexp.MustCompile(`(?i)^\s*(?:` + keywordAlt + `)[\s:]`)
	numberedOpenerRe = regexp.MustCompile(`(?i)^\s*\d+\s*[.)]\s*(?:` + keywordAlt + `)\b`)
)

// FindCandidates applies the pattern battery and the line-scan fallback to
// normalized text and returns the cleaned candidate set in first-seen order.
// Overlapping patterns routinely produce the same text; duplicates are
// suppressed here so the rest of the pipeline sees each candidate once.
func FindCandidates(normalizedText string) []string {
	if normalizedText == "" {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []string
	add := func(raw string) {
		cleaned := CleanQuestion(raw)
		if cleaned == "" || seen[cleaned] {
			return
		}
		seen[cleaned] = true
		candidates = append(candidates, cleaned)
	}

	for _, p := range questionPatterns {
		for _, m := range p.re.FindAllStringSubmatch(normalizedText, -1) {
			body := m[p.group]
			if !bodyMeetsMinimum(p, body) {
				continue
			}
			add(body)
		}
	}

	// Fixed patterns cannot anticipate every line format, so every line that
	// merely looks like a question is admitted too. This trades precision
	// for recall; the validator rejects the noise this lets through.
	for _, line := range strings.Split(normalizedText, "\n") {
		if lineLooksLikeQuestion(line) {
			add(line)
		}
	}

	return candidates
}

// bodyMeetsMinimum applies a pattern's minimum body length. The trailing
// period the imperative pattern captures is a terminator, not content, so it
// is excluded from the measurement.
func bodyMeetsMinimum(p questionPattern, body string) bool {
	if p.minLen == 0 {
		return true
	}
	content := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), "."))
	return len(content) >= p.minLen
}

func lineLooksLikeQuestion(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "?") {
		return true
	}
	return keywordOpenerRe.MatchString(trimmed) || numberedOpenerRe.MatchString(trimmed)
}

// CleanQuestion strips numbering prefixes, mark-allocation annotations and
// stray whitespace from a raw match. A trailing question mark is never
// removed.
func CleanQuestion(raw string) string {
	s := leadingMarkerRe.ReplaceAllString(raw, "")
	s = letterLabelRe.ReplaceAllString(s, "")
	s = leadingMarkerRe.ReplaceAllString(s, "")
	s = marksAnnotationRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
