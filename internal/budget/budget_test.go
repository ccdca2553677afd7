package budget

import (
	"strings"
	"testing"

	"github.com/d3vos/scout-go/internal/memory"
)

func Test_Estimate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a", 1},        // < 4 chars → 1
		{"abcd", 1},     // exactly 4 chars → 1
		{"abcde", 1},    // 5 chars → 1
		{"abcdefgh", 2}, // 8 chars → 2
		{strings.Repeat("x", 400), 100},
	}
	for _, tc := range cases {
		got := Estimate(tc.input)
		if got != tc.want {
			t.Errorf("Estimate(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func Test_EstimateTurn(t *testing.T) {
	t.Parallel()
	turn := memory.Turn{Question: "hello world", Answer: "hi there"}
	// 8 overhead + Estimate("hello world")=2 + Estimate("hi there")=2 = 12
	if got := EstimateTurn(turn); got != 12 {
		t.Errorf("EstimateTurn = %d, want 12", got)
	}
}

func Test_TrimTurns_NoTrimNeeded(t *testing.T) {
	t.Parallel()
	turns := []memory.Turn{
		{Question: "hi", Answer: "hello"},
		{Question: "more", Answer: "sure"},
	}
	got := TrimTurns(turns, 100, DefaultMaxContextTokens)
	if len(got) != 2 {
		t.Errorf("want 2 turns, got %d", len(got))
	}
}

func Test_TrimTurns_DropsOldest(t *testing.T) {
	t.Parallel()
	turns := []memory.Turn{
		{Question: "oldest", Answer: "a"},
		{Question: "newest", Answer: "a"},
	}
	// Each turn costs 8 overhead + Estimate("oldest")=1 + Estimate("a")=1 = 10
	// tokens; two turns = 20. A budget of 10 with zero fixed content fits
	// exactly one turn, so the oldest should be dropped.
	got := TrimTurns(turns, 0, 10)
	if len(got) != 1 {
		t.Fatalf("want 1 turn after trim, got %d", len(got))
	}
	if got[0].Question != "newest" {
		t.Errorf("want newest turn retained, got %q", got[0].Question)
	}
}

func Test_TrimTurns_EmptyTranscript(t *testing.T) {
	t.Parallel()
	got := TrimTurns(nil, 50, 10)
	if len(got) != 0 {
		t.Errorf("want empty result, got %d turns", len(got))
	}
}

func Test_TrimTurns_FixedAloneOverBudget(t *testing.T) {
	t.Parallel()
	turns := []memory.Turn{{Question: "q", Answer: "a"}}
	got := TrimTurns(turns, 1000, 10)
	if len(got) != 0 {
		t.Errorf("want all turns dropped, got %d", len(got))
	}
}
