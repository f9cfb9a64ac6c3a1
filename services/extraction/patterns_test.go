package extraction

import (
	"strings"
	"testing"
)

// expectCandidates asserts the exact candidate list, in order.
func expectCandidates(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d candidates %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindCandidatesPatternBattery(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"numbered-direct",
			"3. What is normalization in database design?",
			"What is normalization in database design?",
		},
		{
			"q-numbered",
			"Q2) How does virtual memory paging work in practice?",
			"How does virtual memory paging work in practice?",
		},
		{
			"letter-paren",
			"(a) Why are B-trees preferred for disk-based indexes?",
			"Why are B-trees preferred for disk-based indexes?",
		},
		{
			"roman-paren",
			"(ii) When does a deadlock occur in concurrent systems?",
			"When does a deadlock occur in concurrent systems?",
		},
		{
			"bracket-numbered",
			"[4] Where is the program counter stored during a context switch?",
			"Where is the program counter stored during a context switch?",
		},
		{
			"keyword-question",
			"Explain how TCP congestion control reacts to packet loss?",
			"Explain how TCP congestion control reacts to packet loss?",
		},
		{
			"keyword-imperative",
			"Describe the lifecycle of a process in an operating system.",
			"Describe the lifecycle of a process in an operating system.",
		},
		{
			"qno-numbered",
			"Q no. 7 State the CAP theorem and its practical implications",
			"State the CAP theorem and its practical implications",
		},
		{
			"short-note",
			"Write short notes on virtual memory and demand paging techniques",
			"Write short notes on virtual memory and demand paging techniques",
		},
		{
			"numerical-lead",
			"7. Calculate the effective access time for a two-level cache hierarchy",
			"Calculate the effective access time for a two-level cache hierarchy",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectCandidates(t, FindCandidates(tc.in), []string{tc.want})
		})
	}
}

func TestKeywordImperativeMinimumExcludesTerminator(t *testing.T) {
	var p questionPattern
	for _, qp := range questionPatterns {
		if qp.id == "keyword-imperative" {
			p = qp
		}
	}
	if p.re == nil {
		t.Fatal("keyword-imperative pattern missing from the battery")
	}

	cases := []struct {
		name string
		in   string
		want bool
	}{
		// 19 content chars before the period.
		{"below-minimum", "Explain an AVL tree.", false},
		// 20 content chars before the period.
		{"at-minimum", "Explain the AVL tree.", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := p.re.FindStringSubmatch(tc.in)
			if m == nil {
				t.Fatalf("pattern did not match %q", tc.in)
			}
			if got := bodyMeetsMinimum(p, m[p.group]); got != tc.want {
				t.Errorf("bodyMeetsMinimum(%q) = %v, want %v", m[p.group], got, tc.want)
			}
		})
	}
}

func TestFindCandidatesDeduplicatesAcrossPatterns(t *testing.T) {
	// The numbered line matches both the pattern battery and the line-scan
	// fallback; after cleaning they are the same candidate.
	got := FindCandidates("1. What is the role of the DNS resolver in name lookup?")
	expectCandidates(t, got, []string{"What is the role of the DNS resolver in name lookup?"})
}

func TestFindCandidatesLineScanFallback(t *testing.T) {
	in := "In what year was the stored program concept proposed?\nThe quick brown fox jumps over the lazy dog"
	got := FindCandidates(in)
	expectCandidates(t, got, []string{"In what year was the stored program concept proposed?"})
}

func TestFindCandidatesEmptyInput(t *testing.T) {
	if got := FindCandidates(""); got != nil {
		t.Errorf("FindCandidates(\"\") = %q, want nil", got)
	}
}

func TestFindCandidatesMultipleQuestions(t *testing.T) {
	in := strings.Join([]string{
		"1. What is a race condition in concurrent programming?",
		"2. What is the purpose of a memory barrier instruction?",
	}, "\n")
	got := FindCandidates(in)
	expectCandidates(t, got, []string{
		"What is a race condition in concurrent programming?",
		"What is the purpose of a memory barrier instruction?",
	})
}

func TestCleanQuestion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"q-prefix", "Q.3) What is virtual memory?", "What is virtual memory?"},
		{"square-marks", "2. Define an operating system kernel [5 marks]", "Define an operating system kernel"},
		{"paren-marks", "(a) State the laws of thermodynamics (2 Marks)", "State the laws of thermodynamics"},
		{"inner-whitespace", "  What   is   recursion in simple terms?  ", "What is recursion in simple terms?"},
		{"trailing-mark-kept", "1. Why is hashing preferred here?", "Why is hashing preferred here?"},
		{"roman-label", "(ii) How are sockets multiplexed?", "How are sockets multiplexed?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanQuestion(tc.in); got != tc.want {
				t.Errorf("CleanQuestion(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
