// Package budget provides token budget estimation and transcript trimming for
// the scout agent. Because scout supports multiple LLM backends with different
// tokenizers, this package uses a conservative character-based heuristic:
// 1 token ≈ 4 characters (English prose). This deliberately under-estimates
// token counts to leave headroom for model-specific overhead.
//
// Trimming only bounds the transcript injected into a prompt; the stored
// conversation memory itself is append-only and never trimmed.
package budget

import (
	"github.com/d3vos/scout-go/internal/memory"
)

const (
	// charsPerToken is the conservative character-to-token ratio used for
	// estimation. 4 chars/token is standard for English prose; using 3
	// would be more aggressive but risks overflowing context windows.
	charsPerToken = 4

	// DefaultMaxContextTokens is the default prompt context budget in tokens.
	// Conservative enough to fit within 8k-context models while leaving room
	// for the retrieved evidence and the output.
	DefaultMaxContextTokens = 6000
)

// Estimate returns a rough token count for s using the character heuristic.
func Estimate(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		return 1
	}
	return n
}

// EstimateTurn returns the estimated token count for a single conversation
// turn, including a small per-message overhead for the role markers.
func EstimateTurn(t memory.Turn) int {
	return 8 + Estimate(t.Question) + Estimate(t.Answer)
}

// TrimTurns removes the oldest turns until the total estimated token count of
// fixed + turns fits within maxTokens. fixedTokens is the estimated size of
// the prompt content that must not be trimmed (instructions, evidence, the
// current question).
//
// Returns the trimmed slice. If even an empty transcript exceeds the budget,
// the empty slice is returned; fixed content is never dropped here.
func TrimTurns(turns []memory.Turn, fixedTokens, maxTokens int) []memory.Turn {
	if len(turns) == 0 {
		return turns
	}

	total := fixedTokens
	for _, t := range turns {
		total += EstimateTurn(t)
	}

	// Transcript length is typically small; a linear scan dropping the oldest
	// turn is clear and correct.
	for len(turns) > 0 && total > maxTokens {
		total -= EstimateTurn(turns[0])
		turns = turns[1:]
	}
	return turns
}
