// Package memory provides the append-only conversation history for scout.
// Each conversation session has its own ordered sequence of question/answer
// turns; turns are never mutated, reordered, or deleted once appended. The
// rendered transcript is injected into LLM prompts as conversational context.
//
// Two implementations are provided: an in-process Buffer for one-shot and
// interactive CLI use, and a SQLite-backed Store that persists sessions
// across process restarts.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Turn is a single question/answer exchange. Turns are immutable after
// creation; a past turn's text never changes.
type Turn struct {
	// Question is the user's message for this turn.
	Question string
	// Answer is the assistant's full formatted answer for this turn.
	Answer string
	// CreatedAt is when the turn was appended.
	CreatedAt time.Time
}

// Memory is the append-only conversation log consumed by the orchestrator.
// Implementations must be safe for concurrent use across sessions; within a
// session the orchestrator serialises access (one pass at a time).
type Memory interface {
	// Append records one completed turn for the session. Append-only: there
	// is no way to modify or remove a prior turn.
	Append(ctx context.Context, sessionID string, turn Turn) error
	// Turns returns all turns for the session in append order.
	Turns(ctx context.Context, sessionID string) ([]Turn, error)
	// Close releases any resources held by the memory.
	Close() error
}

// Render formats turns as a plain-text transcript for prompt injection.
// Returns an empty string for an empty conversation (first turn).
func Render(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString("User: ")
		sb.WriteString(t.Question)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(t.Answer)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Buffer is an in-process Memory holding each session's turns in a slice.
// Nothing is persisted; the conversation lives and dies with the process.
type Buffer struct {
	// mu protects sessions.
	mu sync.Mutex
	// sessions maps session ID to its ordered turn log.
	sessions map[string][]Turn
}

// NewBuffer constructs an empty in-process Memory.
func NewBuffer() *Buffer {
	return &Buffer{sessions: make(map[string][]Turn)}
}

// Append records one turn for the session.
func (b *Buffer) Append(_ context.Context, sessionID string, turn Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[sessionID] = append(b.sessions[sessionID], turn)
	return nil
}

// Turns returns a copy of the session's turn log in append order.
func (b *Buffer) Turns(_ context.Context, sessionID string) ([]Turn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	turns := b.sessions[sessionID]
	if len(turns) == 0 {
		return nil, nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Close is a no-op for the in-process buffer.
func (b *Buffer) Close() error { return nil }

// compile-time interface checks
var (
	_ Memory = (*Buffer)(nil)
	_ Memory = (*Store)(nil)
)
