package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation thresholds. MinWordCount is a deliberate precision/recall
// trade-off: it rejects terse fragments like "Define X." that are usually
// sub-part labels rather than full exam questions. Tune with care, since
// lowering it changes observable output.
const (
	MinQuestionLength = 20
	MaxQuestionLength = 500
	MinWordCount      = 5
	minAlphaRatio     = 0.5
)

// adminPrefixes open administrative lines that are never questions.
var adminPrefixes = []string{
	"note:", "hint:", "given:", "assume:", "figure", "diagram", "marks",
	"time:", "instructions", "attempt", "compulsory", "section", "part",
	"unit", "module", "chapter",
}

var (
	firstCharLetterRe = regexp.MustCompile(`^[A-Za-z]`)
	letterRunRe       = regexp.MustCompile(`[A-Za-z]{4}`)

	// Strings made of digits, whitespace and basic arithmetic punctuation
	// only: leftover formulas and page arithmetic, not prose.
	numericNoiseRe = regexp.MustCompile(`^[\d\s.,\-+=()]+$`)

	// OCR-garbage shapes re-checked at candidate scope. Normalization is
	// line-scoped, so a garbage opener can survive into a merged candidate.
	garbageOpenerRe   = regexp.MustCompile(`^[A-Za-z]\.\s*[A-Za-z]{1,3}\.\s*\d`)
	isolatedCharRunRe = regexp.MustCompile(`(?:\b[A-Z0-9]\b\s+){2,}\b[A-Z0-9]\b`)
)

// IsValid reports whether a cleaned candidate is a genuine exam question.
// It is a pure predicate: failing candidates are simply discarded, which is
// the routine outcome on OCR text, not an error condition.
func IsValid(candidate string) bool {
	// Length is measured in runes, like the alpha ratio, so accented and
	// non-Latin question text is not penalized for its byte width.
	length := utf8.RuneCountInString(candidate)
	if length < MinQuestionLength || length > MaxQuestionLength {
		return false
	}
	if !firstCharLetterRe.MatchString(candidate) {
		return false
	}
	if !letterRunRe.MatchString(candidate) {
		return false
	}
	if len(strings.Fields(candidate)) < MinWordCount {
		return false
	}

	lower := strings.ToLower(candidate)
	for _, prefix := range adminPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	if numericNoiseRe.MatchString(candidate) {
		return false
	}
	if garbageOpenerRe.MatchString(candidate) || isolatedCharRunRe.MatchString(candidate) {
		return false
	}

	return alphaRatio(candidate) >= minAlphaRatio
}

// alphaRatio returns the fraction of runes that are letters. Prose sits well
// above 0.5; symbol soup and numeric debris fall below it.
func alphaRatio(s string) float64 {
	letters, total := 0, 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}
