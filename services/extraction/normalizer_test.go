package extraction

import (
	"strings"
	"testing"
)

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty string", got)
	}
}

func TestNormalizeStripsZeroWidthCharacters(t *testing.T) {
	in := "Explain\u200b the\u200c concept\u200d of\ufeff normalization"
	got := Normalize(in)
	want := "Explain the concept of normalization"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("What   is\t\tan  inverted index used for?")
	want := "What is an inverted index used for?"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeRepairsOCRDigitMisreads(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"oh-period-digit", "1O. Explain paging", "10. Explain paging"},
		{"digit-pipe", "Answer all 1| questions", "Answer all 11 questions"},
		{"ell-digit", "l2 marks each", "12 marks each"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeBreaksQuestionStartsOntoOwnLines(t *testing.T) {
	in := "1. Explain indexing strategies? 2. Define a view? Q.3 What is a trigger?"
	got := Normalize(in)

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines after normalization, got %d: %q", len(lines), got)
	}
	wantStarts := []string{"1. Explain", "2. Define", "Q.3 What"}
	for i, start := range wantStarts {
		if !strings.HasPrefix(strings.TrimSpace(lines[i]), start) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], start)
		}
	}
}

func TestNormalizeDropsSymbolHeavyLines(t *testing.T) {
	in := "==========================\nExplain the role of indexes in query planning"
	got := Normalize(in)
	if strings.Contains(got, "=") {
		t.Errorf("symbol-heavy separator line survived normalization: %q", got)
	}
	if !strings.Contains(got, "Explain the role of indexes") {
		t.Errorf("content line was lost: %q", got)
	}
}

func TestNormalizeDropsMergedSymbolLines(t *testing.T) {
	// Each line alone is under the short-line threshold, but the whitespace
	// collapse merges them into one symbol-heavy line.
	if got := Normalize("###\n###\n###\n###"); got != "" {
		t.Errorf("merged symbol lines survived normalization: %q", got)
	}
}

func TestNormalizeStripsPrefixExposedByLineFilter(t *testing.T) {
	got := Normalize("@@@@######$$$$\ni. si. 9 hello world and further content here")
	if got != "hello world and further content here" {
		t.Errorf("Normalize() = %q, want the garbage prefix gone", got)
	}
}

func TestNormalizeKeepsShortSymbolLines(t *testing.T) {
	// Lines below the length threshold skip the symbol-ratio filter; the
	// validator is responsible for rejecting them later.
	got := Normalize("### ###\nDescribe the boot sequence of a typical kernel")
	if !strings.Contains(got, "###") {
		t.Errorf("short symbol line should survive normalization, got %q", got)
	}
}

func TestNormalizeStripsLeadingOCRNoise(t *testing.T) {
	in := "i. si. 9 2 5 I K3 C PTS Ary kc GN Fr 9 SIE RE"
	got := Normalize(in)
	if strings.Contains(got, "i. si.") {
		t.Errorf("dotted OCR noise prefix survived: %q", got)
	}
	if strings.HasPrefix(got, "2 5") {
		t.Errorf("isolated-character noise prefix survived: %q", got)
	}
}

func TestNormalizeKeepsTwoLetterAcronymOpeners(t *testing.T) {
	got := Normalize("AI ML and deep learning power modern search engines")
	if !strings.HasPrefix(got, "AI ML and") {
		t.Errorf("acronym opener was stripped as noise: %q", got)
	}
}

func TestNormalizeConvertsQuestionMarkVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"fullwidth", "What is an AVL tree\uff1f"},
		{"arabic", "What is an AVL tree\u061f"},
		{"small", "What is an AVL tree\ufe56"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if !strings.HasSuffix(got, "?") {
				t.Errorf("Normalize(%q) = %q, want trailing ASCII question mark", tc.in, got)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"1. Explain the difference between TCP and UDP protocols in detail.",
		"1O. Explain paging in detail? 2. Define a semaphore?",
		"Answer all 1| questions carefully",
		"i. si. 9 2 5 I K3 C PTS Ary kc GN Fr 9 SIE RE",
		"What   is\t\tan  inverted index\uff1f",
		"==========================\nDefine normalization in database design",
		"Q no. 3 State and explain the minimax search procedure",
		// Short symbol lines that merge into one symbol-heavy line after the
		// whitespace collapse.
		"###\n###\n###\n###",
		// Dropping the symbol-heavy first line exposes a garbage prefix.
		"@@@@######$$$$\ni. si. 9 hello world and further content here",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}
