package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/d3vos/scout-go/internal/budget"
	"github.com/d3vos/scout-go/internal/logging"
	"github.com/d3vos/scout-go/internal/memory"
)

// Config holds the dependencies required to construct a ResearchAgent.
type Config struct {
	// Router classifies questions into routes.
	Router *Router

	// Coordinator gathers evidence along the chosen route.
	Coordinator *Coordinator

	// Synthesizer produces the grounded answer.
	Synthesizer *Synthesizer

	// Memory stores the conversation history. May be nil, in which case
	// each question is answered statelessly.
	Memory memory.Memory

	// SessionID keys the conversation in Memory. Defaults to "default".
	SessionID string

	// MaxContextTokens is the estimated token budget for the prompt
	// context. The transcript injected into prompts is trimmed oldest-first
	// to fit; stored history is never touched. Defaults to
	// budget.DefaultMaxContextTokens if zero.
	MaxContextTokens int
}

// ResearchAgent drives one question at a time through the pipeline:
// route, retrieve, synthesize, remember. Every phase runs exactly once per
// question, in order.
type ResearchAgent struct {
	router      *Router
	coordinator *Coordinator
	synthesizer *Synthesizer

	mem              memory.Memory
	sessionID        string
	maxContextTokens int
}

// New constructs a ResearchAgent from the provided Config.
func New(cfg *Config) (*ResearchAgent, error) {
	if cfg.Router == nil {
		return nil, fmt.Errorf("agent: Router must not be nil")
	}
	if cfg.Coordinator == nil {
		return nil, fmt.Errorf("agent: Coordinator must not be nil")
	}
	if cfg.Synthesizer == nil {
		return nil, fmt.Errorf("agent: Synthesizer must not be nil")
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = "default"
	}
	maxCtx := cfg.MaxContextTokens
	if maxCtx <= 0 {
		maxCtx = budget.DefaultMaxContextTokens
	}

	return &ResearchAgent{
		router:           cfg.Router,
		coordinator:      cfg.Coordinator,
		synthesizer:      cfg.Synthesizer,
		mem:              cfg.Memory,
		sessionID:        sessionID,
		maxContextTokens: maxCtx,
	}, nil
}

// Ask answers one question in the agent's default session.
func (a *ResearchAgent) Ask(ctx context.Context, question string) (string, error) {
	return a.AskSession(ctx, a.sessionID, question)
}

// AskSession answers one question in the named session and records the
// exchange in that session's memory. The only failure that surfaces as an
// error is a synthesis model failure; routing and retrieval problems degrade
// inside the pipeline. On error the conversation memory is left untouched.
func (a *ResearchAgent) AskSession(ctx context.Context, sessionID, question string) (string, error) {
	if sessionID == "" {
		sessionID = a.sessionID
	}
	log := logging.FromContext(ctx)
	start := time.Now()

	transcript, err := a.transcript(ctx, sessionID, question)
	if err != nil {
		log.Warn("agent: failed to load conversation history, continuing without it",
			slog.Any("error", err),
		)
		transcript = ""
	}

	state := phaseStart

	route := a.router.Decide(ctx, question, transcript)
	state = phaseRouted
	log.Debug("agent: routed", slog.String("route", string(route)), slog.String("phase", state.String()))

	ev := a.coordinator.Retrieve(ctx, route, question)
	state = phaseRetrieved
	log.Debug("agent: retrieved",
		slog.Int("document_chunks", len(ev.DocumentChunks)),
		slog.Int("web_results", len(ev.WebResults)),
		slog.String("phase", state.String()),
	)

	answer, err := a.synthesizer.Answer(ctx, question, transcript, ev)
	if err != nil {
		return "", fmt.Errorf("agent: %w", err)
	}
	state = phaseSynthesized
	log.Debug("agent: synthesized", slog.String("phase", state.String()))

	if a.mem != nil {
		turn := memory.Turn{Question: question, Answer: answer, CreatedAt: time.Now().UTC()}
		if err := a.mem.Append(ctx, sessionID, turn); err != nil {
			// Losing one turn of history is better than losing the answer.
			log.Warn("agent: failed to persist conversation turn", slog.Any("error", err))
		}
	}
	state = phaseMemoryUpdated
	log.Debug("agent: memory updated", slog.String("phase", state.String()))

	state = phaseDone
	log.Info("agent: answered",
		slog.String("route", string(route)),
		slog.String("phase", state.String()),
		slog.Duration("elapsed", time.Since(start)),
	)

	return answer, nil
}

// SessionID returns the memory key this agent writes its conversation under.
func (a *ResearchAgent) SessionID() string {
	return a.sessionID
}

// transcript renders the stored conversation for prompt injection, trimmed
// oldest-first to the context budget. The stored history itself is never
// trimmed.
func (a *ResearchAgent) transcript(ctx context.Context, sessionID, question string) (string, error) {
	if a.mem == nil {
		return "", nil
	}

	turns, err := a.mem.Turns(ctx, sessionID)
	if err != nil {
		return "", err
	}

	fixed := budget.Estimate(question)
	before := len(turns)
	turns = budget.TrimTurns(turns, fixed, a.maxContextTokens)
	if dropped := before - len(turns); dropped > 0 {
		logging.FromContext(ctx).Debug("agent: trimmed transcript to fit context window",
			slog.Int("dropped", dropped),
			slog.Int("retained", len(turns)),
			slog.Int("max_tokens", a.maxContextTokens),
		)
	}

	return memory.Render(turns), nil
}
