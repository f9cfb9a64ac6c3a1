package extraction

import "strings"

// QuestionRecord is the annotated form of one extracted question.
type QuestionRecord struct {
	ID              int          `json:"id"`
	Text            string       `json:"text"`
	HasQuestionMark bool         `json:"has_question_mark"`
	WordCount       int          `json:"word_count"`
	EstimatedType   QuestionType `json:"estimated_type"`
	Keywords        []string     `json:"keywords"`
}

// ExtractQuestions runs the full pipeline (normalize, pattern battery plus
// line-scan fallback, validate, dedupe) and returns the surviving question
// strings in first-seen order.
//
// It is a pure function of its input: no shared state, safe to call from
// concurrent goroutines, and it never fails. Garbage in yields an empty
// slice, not an error. Discarded noise is the expected outcome on OCR text.
func ExtractQuestions(text string) []string {
	candidates := FindCandidates(Normalize(text))

	questions := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if IsValid(candidate) {
			questions = append(questions, candidate)
		}
	}
	return questions
}

// ExtractQuestionsWithMetadata runs the same pipeline and annotates each
// surviving question with its estimated type and keywords, assigning
// sequential 1-based IDs in output order. This richer form serves consumers
// that want a type distribution without any AI call, such as the heuristic
// fallback predictor.
func ExtractQuestionsWithMetadata(text string) []QuestionRecord {
	questions := ExtractQuestions(text)

	records := make([]QuestionRecord, 0, len(questions))
	for i, q := range questions {
		records = append(records, QuestionRecord{
			ID:              i + 1,
			Text:            q,
			HasQuestionMark: strings.Contains(q, "?"),
			WordCount:       len(strings.Fields(q)),
			EstimatedType:   Classify(q),
			Keywords:        ExtractKeywords(q),
		})
	}
	return records
}
