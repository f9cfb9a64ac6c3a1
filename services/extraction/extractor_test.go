package extraction

import (
	"math/rand"
	"strings"
	"sync"
	"testing"
)

// expectQuestions asserts the exact extracted question list, in order.
func expectQuestions(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d questions %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("question %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractQuestionsNumberedPaper(t *testing.T) {
	in := "1. Explain the difference between TCP and UDP protocols in detail.\n" +
		"2. Define normalization and explain its importance in database design."

	got := ExtractQuestions(in)
	expectQuestions(t, got, []string{
		"Explain the difference between TCP and UDP protocols in detail.",
		"Define normalization and explain its importance in database design.",
	})
}

func TestExtractQuestionsRejectsOCRGarbage(t *testing.T) {
	got := ExtractQuestions("i. si. 9 2 5 I K3 C PTS Ary kc GN Fr 9 SIE RE")
	if len(got) != 0 {
		t.Errorf("expected no questions from OCR garbage, got %q", got)
	}
}

func TestExtractQuestionsWithMetadataMarksAnnotation(t *testing.T) {
	in := "Q.1 What is the difference between a stack and a queue? [5 marks]"

	got := ExtractQuestionsWithMetadata(in)
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1: %+v", len(got), got)
	}

	q := got[0]
	if q.ID != 1 {
		t.Errorf("ID = %d, want 1", q.ID)
	}
	if want := "What is the difference between a stack and a queue?"; q.Text != want {
		t.Errorf("Text = %q, want %q", q.Text, want)
	}
	if !q.HasQuestionMark {
		t.Error("HasQuestionMark = false, want true")
	}
	if q.WordCount != 10 {
		t.Errorf("WordCount = %d, want 10", q.WordCount)
	}
	if q.EstimatedType != TypeShortAnswer {
		t.Errorf("EstimatedType = %q, want %q", q.EstimatedType, TypeShortAnswer)
	}
	wantKeywords := []string{"difference", "stack", "queue"}
	if len(q.Keywords) != len(wantKeywords) {
		t.Fatalf("Keywords = %q, want %q", q.Keywords, wantKeywords)
	}
	for i := range wantKeywords {
		if q.Keywords[i] != wantKeywords[i] {
			t.Errorf("keyword %d = %q, want %q", i, q.Keywords[i], wantKeywords[i])
		}
	}
}

func TestExtractQuestionsShortSymbolLineFailsValidationNotNormalization(t *testing.T) {
	// A short symbol-only line passes the normalizer's length exception but
	// must still be rejected downstream by the validator.
	in := "??? !!!\n1. Explain the working of a binary search tree with a worked example."

	if norm := Normalize(in); !strings.Contains(norm, "???") {
		t.Fatalf("short symbol line should survive normalization, got %q", norm)
	}

	got := ExtractQuestions(in)
	expectQuestions(t, got, []string{
		"Explain the working of a binary search tree with a worked example.",
	})
}

func TestExtractQuestionsDeduplicates(t *testing.T) {
	// The same question appears twice under different numbering styles; one
	// copy is caught by the numbered pattern, the other by the line-scan
	// fallback, and they must collapse to a single entry.
	in := "1. What are the advantages of linked lists over arrays?\n" +
		"Q7 What are the advantages of linked lists over arrays?"

	got := ExtractQuestions(in)
	expectQuestions(t, got, []string{
		"What are the advantages of linked lists over arrays?",
	})
}

func TestExtractQuestionsEmptyAndBlankInput(t *testing.T) {
	for _, in := range []string{"", "   \n\t  ", "\n\n\n"} {
		got := ExtractQuestions(in)
		if got == nil {
			t.Errorf("ExtractQuestions(%q) returned nil, want empty slice", in)
		}
		if len(got) != 0 {
			t.Errorf("ExtractQuestions(%q) = %q, want empty", in, got)
		}
	}
}

func TestExtractQuestionsNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	inputs := []string{
		strings.Repeat("?", 10000),
		strings.Repeat("1. ", 5000),
		"\x00\x01\x02\xff\xfe garbage \x7f bytes",
	}
	for i := 0; i < 50; i++ {
		n := rng.Intn(2000)
		if i == 0 {
			n = 100000
		}
		b := make([]byte, n)
		rng.Read(b)
		inputs = append(inputs, string(b))
	}

	for _, in := range inputs {
		if got := ExtractQuestions(in); got == nil {
			t.Errorf("ExtractQuestions returned nil for %d-byte input", len(in))
		}
		ExtractQuestionsWithMetadata(in)
	}
}

func TestExtractQuestionsConcurrent(t *testing.T) {
	in := examPaperFixture()
	want := strings.Join(ExtractQuestions(in), "\n")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				got := strings.Join(ExtractQuestions(in), "\n")
				if got != want {
					t.Errorf("concurrent extraction diverged:\n got: %q\nwant: %q", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestExtractQuestionsRealPaperFixture(t *testing.T) {
	got := ExtractQuestionsWithMetadata(examPaperFixture())

	wantTexts := []string{
		"Define Artificial Intelligence and explain any four application areas in detail?",
		"What is a constraint satisfaction problem in the field of AI?",
		"State and explain the minimax search procedure for game playing",
		"Calculate the heuristic cost of a path of length 12 using the A* evaluation function",
	}
	wantTypes := []QuestionType{
		TypeShortAnswer,
		TypeShortAnswer,
		TypeLongAnswer,
		TypeNumerical,
	}

	if len(got) != len(wantTexts) {
		for _, q := range got {
			t.Logf("extracted: %q (%s)", q.Text, q.EstimatedType)
		}
		t.Fatalf("got %d questions, want %d", len(got), len(wantTexts))
	}
	for i, q := range got {
		if q.ID != i+1 {
			t.Errorf("question %d has ID %d, want %d", i, q.ID, i+1)
		}
		if q.Text != wantTexts[i] {
			t.Errorf("question %d = %q, want %q", i, q.Text, wantTexts[i])
		}
		if q.EstimatedType != wantTypes[i] {
			t.Errorf("question %d type = %q, want %q", i, q.EstimatedType, wantTypes[i])
		}
		if len(q.Keywords) == 0 || len(q.Keywords) > MaxKeywords {
			t.Errorf("question %d has %d keywords", i, len(q.Keywords))
		}
	}
}

// examPaperFixture simulates OCR output of a scanned university exam paper:
// header boilerplate, a roll number ruler, mixed numbering styles and marks
// annotations.
func examPaperFixture() string {
	return strings.Join([]string{
		"Total No. of Questions : 8]    [Total No. of Printed Pages : 4",
		"Roll No ..................................",
		"MCA-302",
		"Examination, May 2024",
		"Time : Three Hours    Maximum Marks : 70",
		"Note: Attempt any five questions. All questions carry equal marks.",
		"1. Define Artificial Intelligence and explain any four application areas in detail? [7 marks]",
		"2. What is a constraint satisfaction problem in the field of AI? (7 Marks)",
		"Q no. 3 State and explain the minimax search procedure for game playing",
		"4. Calculate the heuristic cost of a path of length 12 using the A* evaluation function",
	}, "\n")
}
