package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/services/extraction"
)

// HeuristicPredictor is the offline fallback used when the inference API is
// unavailable. It ranks recurring keywords across the extracted questions and
// emits template questions for the most frequent topics, weighted by the
// paper's question type distribution.
type HeuristicPredictor struct {
	MaxPredictions int
}

// NewHeuristicPredictor creates the fallback predictor
func NewHeuristicPredictor() *HeuristicPredictor {
	return &HeuristicPredictor{MaxPredictions: 10}
}

type topicScore struct {
	keyword string
	count   int
}

// Predict generates template predictions from keyword frequency
func (h *HeuristicPredictor) Predict(ctx context.Context, paper *model.ExamPaper, questions []extraction.QuestionRecord) (*PredictionDraft, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no extracted questions to predict from")
	}

	topics := rankTopics(questions)
	if len(topics) == 0 {
		return nil, fmt.Errorf("no recurring topics found in extracted questions")
	}

	typeOrder := rankTypes(questions)

	limit := h.MaxPredictions
	if limit <= 0 {
		limit = 10
	}
	if len(topics) < limit {
		limit = len(topics)
	}

	drafts := make([]PredictedDraft, 0, limit)
	for i := 0; i < limit; i++ {
		topic := topics[i]
		qType := typeOrder[i%len(typeOrder)]

		drafts = append(drafts, PredictedDraft{
			QuestionText: templateQuestion(qType, topic.keyword),
			QuestionType: string(qType),
			Topic:        topic.keyword,
			Probability:  topicProbability(topic.count, len(questions)),
			Rationale:    fmt.Sprintf("topic appeared in %d of %d extracted questions", topic.count, len(questions)),
			Keywords:     []string{topic.keyword},
		})
	}

	log.Printf("Heuristic Predictor: Generated %d predicted questions for paper %d", len(drafts), paper.ID)

	return &PredictionDraft{
		Source:    model.PredictionSourceHeuristic,
		Summary:   fmt.Sprintf("Keyword frequency prediction over %d extracted questions, top topic %q", len(questions), topics[0].keyword),
		Questions: drafts,
	}, nil
}

// rankTopics counts keyword occurrences across all questions and orders
// them by frequency, breaking ties by first appearance
func rankTopics(questions []extraction.QuestionRecord) []topicScore {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, q := range questions {
		for _, kw := range q.Keywords {
			if _, ok := counts[kw]; !ok {
				firstSeen[kw] = order
				order++
			}
			counts[kw]++
		}
	}

	topics := make([]topicScore, 0, len(counts))
	for kw, c := range counts {
		topics = append(topics, topicScore{keyword: kw, count: c})
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].count != topics[j].count {
			return topics[i].count > topics[j].count
		}
		return firstSeen[topics[i].keyword] < firstSeen[topics[j].keyword]
	})

	return topics
}

// rankTypes orders question types by how often they occurred, so templates
// mirror the paper's distribution
func rankTypes(questions []extraction.QuestionRecord) []extraction.QuestionType {
	counts := make(map[extraction.QuestionType]int)
	for _, q := range questions {
		counts[q.EstimatedType]++
	}

	types := make([]extraction.QuestionType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})

	if len(types) == 0 {
		types = append(types, extraction.TypeShortAnswer)
	}
	return types
}

// templateQuestion renders a question for a topic in the style of a type
func templateQuestion(qType extraction.QuestionType, topic string) string {
	t := strings.TrimSpace(topic)
	switch qType {
	case extraction.TypeNumerical:
		return fmt.Sprintf("Solve a numerical problem based on %s as covered in previous papers.", t)
	case extraction.TypeComparison:
		return fmt.Sprintf("Compare and contrast the key approaches related to %s.", t)
	case extraction.TypeList:
		return fmt.Sprintf("List and briefly explain the important aspects of %s.", t)
	case extraction.TypeDerivation:
		return fmt.Sprintf("Derive the standard result associated with %s.", t)
	case extraction.TypeDiagram:
		return fmt.Sprintf("Draw a labelled diagram explaining %s.", t)
	case extraction.TypeLongAnswer:
		return fmt.Sprintf("Explain %s in detail with suitable examples.", t)
	default:
		return fmt.Sprintf("What is %s? Explain briefly.", t)
	}
}

// topicProbability maps a topic's share of questions onto a bounded
// confidence value
func topicProbability(count, total int) float64 {
	if total == 0 {
		return 0
	}
	p := 0.3 + 0.6*float64(count)/float64(total)
	if p > 0.9 {
		p = 0.9
	}
	return p
}
