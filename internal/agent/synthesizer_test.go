package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/d3vos/scout-go/internal/rag"
	"github.com/d3vos/scout-go/internal/websearch"
)

func TestAnswer_EmptyEvidenceFallsBackWithoutModelCall(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{responses: []string{"should never be used"}}
	s := NewSynthesizer(llm)

	answer, err := s.Answer(context.Background(), "anything", "", &Evidence{})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.Contains(answer, fallbackAnswer) {
		t.Errorf("expected fallback text in answer, got:\n%s", answer)
	}
	if !strings.Contains(answer, "**Source(s) Used:** None") {
		t.Errorf("expected sources label None, got:\n%s", answer)
	}
	if llm.callCount() != 0 {
		t.Errorf("fallback must not call the model, got %d calls", llm.callCount())
	}
}

func TestAnswer_DocumentMode(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{responses: []string{"RLHF fine-tunes the policy model (arxiv:2405.10467, p.2)."}}
	s := NewSynthesizer(llm)

	ev := &Evidence{
		DocumentChunks: []rag.Chunk{
			{Source: "arxiv:2405.10467", Page: 2, Content: "RLHF fine-tunes..."},
		},
	}
	answer, err := s.Answer(context.Background(), "what is rlhf?", "", ev)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if !strings.Contains(answer, "**Source(s) Used:** Documents") {
		t.Errorf("expected Documents sources label, got:\n%s", answer)
	}
	if strings.Contains(answer, "**Web Sources:**") {
		t.Error("document-only answer must not carry a web source list")
	}

	llm.mu.Lock()
	defer llm.mu.Unlock()
	if llm.lastSystem != documentSynthesisPrompt {
		t.Error("expected the document synthesis prompt")
	}
	if !strings.Contains(llm.lastUser, "(arxiv:2405.10467, p.2)") {
		t.Error("expected chunk citation key in the user prompt")
	}
}

func TestAnswer_WebModeAppendsSourceList(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{responses: []string{"Go 1.26 shipped in February 2026 [1]."}}
	s := NewSynthesizer(llm)

	ev := &Evidence{
		WebResults: []websearch.Result{
			{Title: "Release Notes", URL: "https://go.dev/doc/go1.26", Content: "...", Rank: 1},
			{Title: "Blog", URL: "https://go.dev/blog/go1.26", Content: "...", Rank: 2},
		},
		DirectAnswer: "February 2026.",
	}
	answer, err := s.Answer(context.Background(), "when did go 1.26 ship?", "", ev)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if !strings.Contains(answer, "**Source(s) Used:** Web Search") {
		t.Errorf("expected Web Search sources label, got:\n%s", answer)
	}
	if !strings.Contains(answer, "**Web Sources:**\n[1] https://go.dev/doc/go1.26\n[2] https://go.dev/blog/go1.26") {
		t.Errorf("expected numbered web source list, got:\n%s", answer)
	}

	llm.mu.Lock()
	defer llm.mu.Unlock()
	if llm.lastSystem != webSynthesisPrompt {
		t.Error("expected the web synthesis prompt")
	}
	if !strings.Contains(llm.lastUser, "February 2026.") {
		t.Error("expected the search engine summary in the user prompt")
	}
}

func TestAnswer_CombinedMode(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{responses: []string{"combined answer"}}
	s := NewSynthesizer(llm)

	ev := &Evidence{
		DocumentChunks: []rag.Chunk{{Source: "arxiv:2405.10467", Page: 1, Content: "..."}},
		WebResults:     []websearch.Result{{URL: "https://example.com", Rank: 1}},
	}
	answer, err := s.Answer(context.Background(), "compare", "", ev)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if !strings.Contains(answer, "**Source(s) Used:** Documents + Web Search") {
		t.Errorf("expected combined sources label, got:\n%s", answer)
	}
	if !strings.Contains(answer, "**Web Sources:**") {
		t.Error("combined answer must carry the web source list")
	}

	llm.mu.Lock()
	defer llm.mu.Unlock()
	if llm.lastSystem != combinedSynthesisPrompt {
		t.Error("expected the combined synthesis prompt")
	}
	if !strings.Contains(llm.lastSystem, "[Web Source 1], [Web Source 2]") {
		t.Error("combined prompt must mandate the [Web Source n] citation convention")
	}
	if !strings.Contains(llm.lastSystem, "Prioritize the document excerpts for core concepts") {
		t.Error("combined prompt must carry the evidence prioritization rule")
	}
}

func TestAnswer_ModelErrorPropagates(t *testing.T) {
	t.Parallel()

	modelErr := errors.New("model unavailable")
	s := NewSynthesizer(&fakeLLM{err: modelErr})

	ev := &Evidence{DocumentChunks: []rag.Chunk{{Source: "arxiv:1", Page: 1, Content: "x"}}}
	if _, err := s.Answer(context.Background(), "q", "", ev); !errors.Is(err, modelErr) {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}

func TestAnswer_HeaderNamesQuestion(t *testing.T) {
	t.Parallel()

	s := NewSynthesizer(&fakeLLM{responses: []string{"body"}})
	ev := &Evidence{DocumentChunks: []rag.Chunk{{Source: "arxiv:1", Page: 1, Content: "x"}}}

	answer, err := s.Answer(context.Background(), "what is attention?", "", ev)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.HasPrefix(answer, "## Context\n**Question:** what is attention?\n") {
		t.Errorf("unexpected header:\n%s", answer)
	}
	if !strings.Contains(answer, "## Response\nbody") {
		t.Errorf("expected response section, got:\n%s", answer)
	}
}
