// Package extraction implements the rule-based question extraction pipeline.
// It takes raw text from PDF parsing or OCR, cleans it up, and identifies the
// substrings that are real exam questions while discarding layout noise,
// headers, page numbers and OCR garbage.
package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// Zero-width space, joiner, non-joiner and BOM frequently leak out of PDF
	// text layers and break pattern anchoring.
	zeroWidthRe = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF]")

	// Leading OCR garbage of the "i. si. 9" shape: lone letter, period,
	// 1-3 letters, period, digits.
	leadingDotNoiseRe = regexp.MustCompile(`^[A-Za-z]\.\s*[A-Za-z]{1,3}\.\s*\d+\s*`)

	// Runs of isolated single uppercase letters/digits at the start of the
	// text ("9 2 5 I K ..."), typical of garbled scan headers. Single
	// characters only, so real openers like "AI ML and ..." survive.
	leadingCapsNoiseRe = regexp.MustCompile(`^(?:[A-Z0-9]\s+){2,}`)

	// Question-start tokens that must begin their own line so the
	// line-anchored patterns can see them.
	numberedStartRe = regexp.MustCompile(`(\d+\.\s)`)
	qTokenStartRe   = regexp.MustCompile(`(?i)(\bQ\s*no\.?\s?\d+|\bQ\.?\s?\d+)`)

	whitespaceRe = regexp.MustCompile(`\s+`)

	// OCR misreads in numeric contexts.
	digitPipeRe = regexp.MustCompile(`([0-9])[|l]`)
	pipeDigitRe = regexp.MustCompile(`[|l]([0-9])`)
	ohPeriodRe  = regexp.MustCompile(`O\.([0-9\s])`)

	questionMarkReplacer = strings.NewReplacer(
		"？", "?", // fullwidth question mark
		"؟", "?", // Arabic question mark
		"⁇", "?", // double question mark
		"﹖", "?", // small question mark
	)
)

// shortLineKeepThreshold is the line length below which the symbol-ratio line
// filter does not apply. Short lines may be legitimate headers or the start of
// a question that gets merged during whitespace normalization.
const shortLineKeepThreshold = 10

// maxNormalizePasses caps the fixed-point iteration in Normalize. Real
// inputs settle within two or three passes.
const maxNormalizePasses = 10

// Normalize cleans raw extracted text of encoding artifacts, layout noise and
// line-break inconsistencies, producing a blob suitable for pattern matching.
// It never fails: any input string, including empty, binary garbage or very
// long Unicode, yields a string result. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// The cleaning passes can expose work for each other: removing a
	// symbol-heavy line may uncover a garbage prefix underneath, and the
	// whitespace collapse may merge short symbol lines into one long line
	// the filter only sees on the next pass. Iterate until the text stops
	// changing so a second Normalize call has nothing left to do.
	for i := 0; i < maxNormalizePasses; i++ {
		next := normalizeOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func normalizeOnce(text string) string {
	text = zeroWidthRe.ReplaceAllString(text, "")
	text = stripLeadingNoise(text)
	text = filterNoisyLines(text)

	// Collapse all whitespace runs, repair OCR digit misreads, then re-break
	// so every question-start token ("12. ", "Q.5", "q7") begins its own
	// line. The digit repair must run before the re-break: a corrected
	// token like "1O." -> "10." has to be on its own line too, and fixing
	// it afterwards would leave Normalize without a fixed point.
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = digitPipeRe.ReplaceAllString(text, "${1}1")
	text = pipeDigitRe.ReplaceAllString(text, "1$1")
	text = ohPeriodRe.ReplaceAllString(text, "0.$1")
	text = numberedStartRe.ReplaceAllString(text, "\n$1")
	text = qTokenStartRe.ReplaceAllString(text, "\n$1")

	text = questionMarkReplacer.Replace(text)

	return strings.TrimSpace(text)
}

// stripLeadingNoise drops recognizable OCR garbage from the start of the
// text. The shapes it removes have an abnormally low letter ratio over a
// short span, so real content (including "1. Explain ...") is left alone.
func stripLeadingNoise(text string) string {
	for {
		trimmed := strings.TrimLeft(text, " \t\r\n")
		if m := leadingDotNoiseRe.FindString(trimmed); m != "" {
			text = trimmed[len(m):]
			continue
		}
		if m := leadingCapsNoiseRe.FindString(trimmed); m != "" {
			text = trimmed[len(m):]
			continue
		}
		return text
	}
}

// filterNoisyLines drops lines whose symbol count exceeds twice their letter
// count. Lines shorter than shortLineKeepThreshold are always kept; the
// validator catches whatever junk survives here.
func filterNoisyLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if len(line) < shortLineKeepThreshold || !isSymbolHeavy(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func isSymbolHeavy(line string) bool {
	letters, symbols := 0, 0
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r) || unicode.IsSpace(r):
			// neutral
		default:
			symbols++
		}
	}
	return symbols > 2*letters
}
