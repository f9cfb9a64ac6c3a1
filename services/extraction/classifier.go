package extraction

import (
	"regexp"
	"strings"
)

// QuestionType is the coarse answer-format label assigned by the classifier.
type QuestionType string

const (
	TypeNumerical   QuestionType = "numerical"
	TypeShortAnswer QuestionType = "short_answer"
	TypeLongAnswer  QuestionType = "long_answer"
	TypeComparison  QuestionType = "comparison"
	TypeList        QuestionType = "list"
	TypeDerivation  QuestionType = "derivation"
	TypeDiagram     QuestionType = "diagram"
)

// MaxKeywords caps the keyword list attached to each question record.
const MaxKeywords = 10

// classifierRule pairs a type with the lowercase cues that select it. Rules
// are evaluated in order; the first hit wins, so "What is the difference
// between X and Y?" classifies as short answer, not comparison.
type classifierRule struct {
	qtype       QuestionType
	cues        []string
	needsDigits bool
}

var classifierRules = []classifierRule{
	{qtype: TypeNumerical, cues: []string{"calculate", "find", "solve", "compute", "determine", "evaluate"}, needsDigits: true},
	{qtype: TypeShortAnswer, cues: []string{"define", "what is", "meaning of"}},
	{qtype: TypeLongAnswer, cues: []string{"explain", "describe", "discuss", "elaborate", "analyze"}},
	{qtype: TypeComparison, cues: []string{"compare", "differentiate", "distinguish"}},
	{qtype: TypeList, cues: []string{"list", "enumerate", "name", "mention"}},
	{qtype: TypeDerivation, cues: []string{"derive", "prove", "show that"}},
	{qtype: TypeDiagram, cues: []string{"draw", "sketch", "diagram"}},
}

var (
	digitRe   = regexp.MustCompile(`\d`)
	nonWordRe = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Classify assigns a question type by the first matching rule, defaulting to
// long answer when nothing matches.
func Classify(questionText string) QuestionType {
	lower := strings.ToLower(questionText)
	for _, rule := range classifierRules {
		if rule.needsDigits && !digitRe.MatchString(lower) {
			continue
		}
		for _, cue := range rule.cues {
			if strings.Contains(lower, cue) {
				return rule.qtype
			}
		}
	}
	return TypeLongAnswer
}

// ExtractKeywords returns up to MaxKeywords unique lowercase tokens from the
// question text, stop-word filtered, in order of first occurrence.
func ExtractKeywords(questionText string) []string {
	lower := strings.ToLower(questionText)
	lower = nonWordRe.ReplaceAllString(lower, "")

	seen := make(map[string]bool)
	var keywords []string
	for _, token := range strings.Fields(lower) {
		if len(token) <= 2 || stopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}
