package extraction

import (
	"strings"
	"testing"
)

func TestIsValid(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"typical-question", "Explain the difference between processes and threads in detail", true},
		{"minimum-length-boundary", "What is an AVL tree?", true},
		{"too-short", "Define an AVL tree.", false},
		{"too-long", strings.Repeat("very long question text ", 25) + "?", false},
		{"starts-with-digit", "1. Explain the structure of a B-tree index node", false},
		{"starts-with-bracket", "[continued from the previous page of the paper]", false},
		{"no-letter-run", "PTS Ary kc GN Fr 9 SIE RE", false},
		{"too-few-words", "Explain polymorphism thoroughly today", false},
		{"note-prefix", "Note: all questions carry equal marks here", false},
		{"attempt-prefix", "Attempt any five of the following questions", false},
		{"section-prefix", "Section A contains ten short answer questions", false},
		{"figure-prefix", "Figure 2 shows the circuit used in question three", false},
		{"numeric-debris", "12.5 + 34 = 46.5 (see page 7)", false},
		{"ocr-garbage-opener", "a. bc. 123 with some extra textual content here", false},
		{"isolated-char-run", "Answer all of A 1 B and C D E questions properly", false},
		{"low-alpha-ratio", "x2 + y2 = z2 and a2 + b2 = c2 equations", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValid(tc.in); got != tc.want {
				t.Errorf("IsValid(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsValidMeasuresLengthInRunes(t *testing.T) {
	// 18 runes but 25 bytes; under the minimum regardless of encoding.
	if IsValid("What ís ükä öö ää?") {
		t.Error("accepted a candidate below the minimum rune length")
	}

	// 490 runes but well over 500 bytes; within the band.
	long := "Explain the idea of " + strings.Repeat("ü", 470)
	if !IsValid(long) {
		t.Error("rejected a candidate within the maximum rune length")
	}
}

func TestIsValidRejectsAllTruncationsBelowMinimum(t *testing.T) {
	q := "Explain the working of virtual memory paging?"
	for i := 0; i < MinQuestionLength; i++ {
		if IsValid(q[:i]) {
			t.Errorf("IsValid accepted %d-char truncation %q", i, q[:i])
		}
	}
}
