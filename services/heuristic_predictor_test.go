package services

import (
	"context"
	"testing"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/services/extraction"
)

func record(id int, qType extraction.QuestionType, keywords ...string) extraction.QuestionRecord {
	return extraction.QuestionRecord{
		ID:            id,
		Text:          "placeholder question text for heuristic ranking",
		EstimatedType: qType,
		Keywords:      keywords,
	}
}

func TestHeuristicPredictRanksTopicsByFrequency(t *testing.T) {
	paper := &model.ExamPaper{Subject: "Operating Systems"}
	questions := []extraction.QuestionRecord{
		record(1, extraction.TypeShortAnswer, "deadlock", "paging"),
		record(2, extraction.TypeShortAnswer, "deadlock"),
		record(3, extraction.TypeLongAnswer, "scheduling"),
	}

	draft, err := NewHeuristicPredictor().Predict(context.Background(), paper, questions)
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}

	if draft.Source != model.PredictionSourceHeuristic {
		t.Errorf("Source = %q, want %q", draft.Source, model.PredictionSourceHeuristic)
	}
	if len(draft.Questions) != 3 {
		t.Fatalf("got %d predictions, want 3", len(draft.Questions))
	}

	if draft.Questions[0].Topic != "deadlock" {
		t.Errorf("top topic = %q, want \"deadlock\"", draft.Questions[0].Topic)
	}
	// Frequency ties fall back to first appearance order
	if draft.Questions[1].Topic != "paging" {
		t.Errorf("second topic = %q, want \"paging\"", draft.Questions[1].Topic)
	}
	if draft.Questions[2].Topic != "scheduling" {
		t.Errorf("third topic = %q, want \"scheduling\"", draft.Questions[2].Topic)
	}

	// The dominant type in the input leads the template rotation
	if draft.Questions[0].QuestionType != string(extraction.TypeShortAnswer) {
		t.Errorf("first prediction type = %q, want %q", draft.Questions[0].QuestionType, extraction.TypeShortAnswer)
	}
	if draft.Questions[1].QuestionType != string(extraction.TypeLongAnswer) {
		t.Errorf("second prediction type = %q, want %q", draft.Questions[1].QuestionType, extraction.TypeLongAnswer)
	}
}

func TestHeuristicPredictProbabilitiesDescendAndStayBounded(t *testing.T) {
	paper := &model.ExamPaper{Subject: "DBMS"}
	questions := []extraction.QuestionRecord{
		record(1, extraction.TypeShortAnswer, "normalization"),
		record(2, extraction.TypeShortAnswer, "normalization"),
		record(3, extraction.TypeShortAnswer, "normalization"),
		record(4, extraction.TypeShortAnswer, "indexing"),
	}

	draft, err := NewHeuristicPredictor().Predict(context.Background(), paper, questions)
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}

	var prev float64 = 1.0
	for i, q := range draft.Questions {
		if q.Probability <= 0 || q.Probability > 0.9 {
			t.Errorf("prediction %d probability %v out of range (0, 0.9]", i, q.Probability)
		}
		if q.Probability > prev {
			t.Errorf("prediction %d probability %v greater than previous %v", i, q.Probability, prev)
		}
		prev = q.Probability
	}
}

func TestHeuristicPredictCapsPredictionCount(t *testing.T) {
	paper := &model.ExamPaper{Subject: "Networks"}

	keywords := []string{
		"routing", "switching", "tcp", "udp", "congestion", "framing",
		"multiplexing", "encryption", "subnetting", "arp", "dns", "http",
	}
	questions := make([]extraction.QuestionRecord, 0, len(keywords))
	for i, kw := range keywords {
		questions = append(questions, record(i+1, extraction.TypeLongAnswer, kw))
	}

	predictor := NewHeuristicPredictor()
	draft, err := predictor.Predict(context.Background(), paper, questions)
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}

	if len(draft.Questions) != predictor.MaxPredictions {
		t.Errorf("got %d predictions, want cap of %d", len(draft.Questions), predictor.MaxPredictions)
	}
}

func TestHeuristicPredictEmptyInput(t *testing.T) {
	paper := &model.ExamPaper{Subject: "AI"}

	if _, err := NewHeuristicPredictor().Predict(context.Background(), paper, nil); err == nil {
		t.Error("expected error for empty question list, got nil")
	}
}
