package extraction

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want QuestionType
	}{
		{"numerical", "Calculate the resultant force when 3 masses of 5 kg collide", TypeNumerical},
		{"numerical-evaluate", "Evaluate the expression 2 + 3 * 4 using operator precedence", TypeNumerical},
		{"calc-verb-without-digits", "Determine the correct output of the given program", TypeLongAnswer},
		{"short-answer-define", "Define entropy and state its physical significance", TypeShortAnswer},
		{"short-answer-what-is", "What is the difference between a stack and a queue?", TypeShortAnswer},
		{"long-answer-explain", "Explain the working of the two phase commit protocol", TypeLongAnswer},
		{"explain-beats-diagram", "Sketch and explain the architecture of a superscalar processor", TypeLongAnswer},
		{"comparison", "Compare paging and segmentation memory management schemes", TypeComparison},
		{"comparison-differentiate", "Differentiate between symmetric and asymmetric encryption methods", TypeComparison},
		{"list", "List the ACID properties of a database transaction", TypeList},
		{"derivation", "Derive the equation of motion for a simple pendulum", TypeDerivation},
		{"derivation-prove", "Prove that the halting problem is undecidable", TypeDerivation},
		{"diagram", "Draw the state transition diagram for a vending machine controller", TypeDiagram},
		{"default-long-answer", "Write a short essay on garbage collection strategies", TypeLongAnswer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.in); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("What is the difference between a stack and a queue?")
	want := []string{"difference", "stack", "queue"}
	if len(got) != len(want) {
		t.Fatalf("ExtractKeywords() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractKeywordsCapAndDedup(t *testing.T) {
	in := "Compare monolithic kernels microkernels hybrid kernels exokernels nanokernels virtual machines containers hypervisors runtime sandboxes"
	got := ExtractKeywords(in)

	if len(got) != MaxKeywords {
		t.Fatalf("got %d keywords, want cap of %d: %q", len(got), MaxKeywords, got)
	}
	if got[0] != "compare" {
		t.Errorf("first keyword = %q, want %q (first-occurrence order)", got[0], "compare")
	}
	seen := make(map[string]bool)
	for _, kw := range got {
		if seen[kw] {
			t.Errorf("duplicate keyword %q in %q", kw, got)
		}
		seen[kw] = true
	}
}

func TestExtractKeywordsDropsShortAndStopWords(t *testing.T) {
	got := ExtractKeywords("Explain the use of a B tree in an index?")
	for _, kw := range got {
		if len(kw) <= 2 {
			t.Errorf("keyword %q is too short to be kept", kw)
		}
		if stopWords[kw] {
			t.Errorf("stop word %q leaked into keywords %q", kw, got)
		}
	}
}
