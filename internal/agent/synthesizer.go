package agent

import (
	"context"
	"fmt"
	"strings"
)

// Synthesizer turns gathered evidence into a grounded, cited answer.
// An LLM failure here is the one error the pipeline propagates: with no
// synthesized text there is nothing useful to return.
type Synthesizer struct {
	llm LanguageModel
}

// NewSynthesizer constructs a Synthesizer on the given model.
func NewSynthesizer(llm LanguageModel) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// Answer produces the final answer for the question from the evidence.
// transcript is the rendered conversation so far ("" when empty). When the
// evidence is empty the fixed fallback text is returned without calling the
// model.
func (s *Synthesizer) Answer(ctx context.Context, question, transcript string, ev *Evidence) (string, error) {
	if ev.Empty() {
		return render(question, "None", fallbackAnswer, nil), nil
	}

	hasDocs := len(ev.DocumentChunks) > 0
	hasWeb := len(ev.WebResults) > 0

	var systemPrompt, sourcesLabel string
	switch {
	case hasDocs && hasWeb:
		systemPrompt = combinedSynthesisPrompt
		sourcesLabel = "Documents + Web Search"
	case hasDocs:
		systemPrompt = documentSynthesisPrompt
		sourcesLabel = "Documents"
	default:
		systemPrompt = webSynthesisPrompt
		sourcesLabel = "Web Search"
	}

	body, err := s.llm.Complete(ctx, systemPrompt, s.userPrompt(question, transcript, ev))
	if err != nil {
		return "", fmt.Errorf("synthesizer: %w", err)
	}

	var webURLs []string
	if hasWeb {
		webURLs = make([]string, 0, len(ev.WebResults))
		for _, r := range ev.WebResults {
			webURLs = append(webURLs, r.URL)
		}
	}

	return render(question, sourcesLabel, strings.TrimSpace(body), webURLs), nil
}

// userPrompt assembles the evidence and question into the model's user
// message.
func (s *Synthesizer) userPrompt(question, transcript string, ev *Evidence) string {
	var sb strings.Builder

	if transcript != "" {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(transcript)
		sb.WriteString("\n")
	}

	if len(ev.DocumentChunks) > 0 {
		sb.WriteString("Document excerpts:\n\n")
		for _, c := range ev.DocumentChunks {
			fmt.Fprintf(&sb, "(%s, p.%d)\n%s\n\n", c.Source, c.Page, c.Content)
		}
	}

	if len(ev.WebResults) > 0 {
		sb.WriteString("Web search results:\n\n")
		for _, r := range ev.WebResults {
			fmt.Fprintf(&sb, "[%d] %s (%s)\n%s\n\n", r.Rank, r.Title, r.URL, r.Content)
		}
		if ev.DirectAnswer != "" {
			fmt.Fprintf(&sb, "Search engine summary (verify before relying on it):\n%s\n\n", ev.DirectAnswer)
		}
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)

	return sb.String()
}

// render formats the final answer: a context header naming the question and
// the sources used, the response body, and, when the web contributed, a
// numbered source list matching the [n] citations in the body.
func render(question, sourcesLabel, body string, webURLs []string) string {
	var sb strings.Builder

	sb.WriteString("## Context\n")
	fmt.Fprintf(&sb, "**Question:** %s\n", question)
	fmt.Fprintf(&sb, "**Source(s) Used:** %s\n\n", sourcesLabel)
	sb.WriteString("## Response\n")
	sb.WriteString(body)

	if len(webURLs) > 0 {
		sb.WriteString("\n\n**Web Sources:**\n")
		for i, url := range webURLs {
			fmt.Fprintf(&sb, "[%d] %s\n", i+1, url)
		}
	}

	return sb.String()
}
