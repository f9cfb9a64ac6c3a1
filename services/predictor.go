package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/services/extraction"
	"github.com/amitesh-7/predictwise-ai-sub000/services/inference"
	"github.com/amitesh-7/predictwise-ai-sub000/utils"
)

// PredictedDraft is one predicted question before persistence
type PredictedDraft struct {
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Topic        string   `json:"topic"`
	Section      string   `json:"section,omitempty"`
	Marks        int      `json:"marks,omitempty"`
	Probability  float64  `json:"probability"`
	Rationale    string   `json:"rationale,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
}

// PredictionDraft is a full predicted paper produced by a Predictor
type PredictionDraft struct {
	Source    model.PredictionSource `json:"source"`
	Model     string                 `json:"model,omitempty"`
	Summary   string                 `json:"summary"`
	Questions []PredictedDraft       `json:"questions"`
	RawOutput string                 `json:"-"`
}

// Predictor produces a predicted exam paper from the questions extracted
// out of an uploaded one
type Predictor interface {
	Predict(ctx context.Context, paper *model.ExamPaper, questions []extraction.QuestionRecord) (*PredictionDraft, error)
}

// AIPredictor asks an LLM to predict the next exam paper
type AIPredictor struct {
	client *inference.Client
}

// NewAIPredictor creates a predictor backed by the inference API
func NewAIPredictor(client *inference.Client) *AIPredictor {
	return &AIPredictor{client: client}
}

const predictorSystemPrompt = `You are an exam paper analyst. Given the questions extracted from a previous exam paper, predict the questions most likely to appear in the next exam of the same subject.

Rules:
- Base predictions on the topics, question types, and mark patterns in the input.
- Each predicted question must be a complete, answerable exam question.
- question_type must be one of: numerical, short_answer, long_answer, comparison, list, derivation, diagram.
- probability is your confidence between 0 and 1 that a question on this topic appears.
- Produce 8 to 15 predicted questions, ordered by probability descending.
- Respond with JSON only.`

// predictionSchema describes the structured output for the inference API
func predictionSchema() map[string]interface{} {
	questionProps := map[string]interface{}{
		"question_text": map[string]interface{}{"type": "string"},
		"question_type": map[string]interface{}{
			"type": "string",
			"enum": []string{"numerical", "short_answer", "long_answer", "comparison", "list", "derivation", "diagram"},
		},
		"topic":       map[string]interface{}{"type": "string"},
		"section":     map[string]interface{}{"type": "string"},
		"marks":       map[string]interface{}{"type": "integer"},
		"probability": map[string]interface{}{"type": "number"},
		"rationale":   map[string]interface{}{"type": "string"},
		"keywords": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{"type": "string"},
			"questions": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":       "object",
					"properties": questionProps,
					"required":   []string{"question_text", "question_type", "topic", "probability"},
				},
			},
		},
		"required": []string{"summary", "questions"},
	}
}

// Predict builds the prompt from the extracted questions and parses the
// structured response
func (p *AIPredictor) Predict(ctx context.Context, paper *model.ExamPaper, questions []extraction.QuestionRecord) (*PredictionDraft, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no extracted questions to predict from")
	}

	userPrompt := buildPredictionPrompt(paper, questions)

	raw, err := p.client.StructuredCompletion(ctx,
		predictorSystemPrompt,
		userPrompt,
		"exam_prediction",
		"Predicted exam paper with per-question probabilities",
		predictionSchema(),
		inference.WithTemperature(0.4),
		inference.WithMaxTokens(4096),
	)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}

	var parsed struct {
		Summary   string           `json:"summary"`
		Questions []PredictedDraft `json:"questions"`
	}

	// Structured output should be clean JSON, but some models still wrap it
	// in markdown fences
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		if exErr := utils.ExtractJSONTo(raw, &parsed); exErr != nil {
			return nil, fmt.Errorf("failed to parse prediction response: %w", exErr)
		}
	}

	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("prediction response contained no questions")
	}

	for i := range parsed.Questions {
		parsed.Questions[i].Probability = clampProbability(parsed.Questions[i].Probability)
		if parsed.Questions[i].QuestionType == "" {
			parsed.Questions[i].QuestionType = string(extraction.Classify(parsed.Questions[i].QuestionText))
		}
	}

	log.Printf("AI Predictor: Generated %d predicted questions for paper %d", len(parsed.Questions), paper.ID)

	return &PredictionDraft{
		Source:    model.PredictionSourceAI,
		Model:     p.client.Model(),
		Summary:   parsed.Summary,
		Questions: parsed.Questions,
		RawOutput: raw,
	}, nil
}

// buildPredictionPrompt renders the extracted questions into the user message
func buildPredictionPrompt(paper *model.ExamPaper, questions []extraction.QuestionRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", paper.Subject)
	if paper.ExamType != "" {
		fmt.Fprintf(&b, "Exam type: %s\n", paper.ExamType)
	}
	if paper.Year > 0 {
		fmt.Fprintf(&b, "Year: %d\n", paper.Year)
	}
	fmt.Fprintf(&b, "\nQuestions extracted from the previous paper (%d total):\n\n", len(questions))

	for _, q := range questions {
		fmt.Fprintf(&b, "%d. [%s] %s\n", q.ID, q.EstimatedType, q.Text)
		if len(q.Keywords) > 0 {
			fmt.Fprintf(&b, "   keywords: %s\n", strings.Join(q.Keywords, ", "))
		}
	}

	b.WriteString("\nPredict the next exam paper for this subject.")
	return b.String()
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
