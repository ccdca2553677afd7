// Package agent implements the core question-answering pipeline: a router
// picks the evidence sources for a question, a coordinator gathers evidence
// from the document store and the web, a synthesizer grounds the answer in
// that evidence, and the orchestrator drives one question through the whole
// sequence while maintaining conversation memory.
package agent

import (
	"github.com/d3vos/scout-go/internal/rag"
	"github.com/d3vos/scout-go/internal/websearch"
)

// Route identifies which evidence sources the coordinator consults for a
// question.
type Route string

const (
	// RouteDocuments retrieves from the ingested document store only.
	RouteDocuments Route = "documents"

	// RouteWeb retrieves from live web search only.
	RouteWeb Route = "web"

	// RouteBoth retrieves from the document store and the web concurrently.
	RouteBoth Route = "both"
)

// Valid reports whether r is one of the three defined routes.
func (r Route) Valid() bool {
	switch r {
	case RouteDocuments, RouteWeb, RouteBoth:
		return true
	}
	return false
}

// Evidence is everything the coordinator gathered for one question.
// Which fields are populated depends strictly on the route: RouteDocuments
// never fills WebResults, RouteWeb never fills DocumentChunks.
type Evidence struct {
	// DocumentChunks holds the document store hits, best first.
	DocumentChunks []rag.Chunk

	// WebResults holds the web search hits in rank order.
	WebResults []websearch.Result

	// DirectAnswer is the search engine's own answer when the web was
	// consulted and one was produced. Advisory only; empty means absent.
	DirectAnswer string
}

// Empty reports whether the coordinator found no usable evidence at all.
func (e *Evidence) Empty() bool {
	return len(e.DocumentChunks) == 0 && len(e.WebResults) == 0
}

// phase tracks a question's position in the pipeline. Each Ask call advances
// through the phases in order with no skips or cycles.
type phase int

const (
	phaseStart phase = iota
	phaseRouted
	phaseRetrieved
	phaseSynthesized
	phaseMemoryUpdated
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseStart:
		return "start"
	case phaseRouted:
		return "routed"
	case phaseRetrieved:
		return "retrieved"
	case phaseSynthesized:
		return "synthesized"
	case phaseMemoryUpdated:
		return "memory_updated"
	case phaseDone:
		return "done"
	default:
		return "unknown"
	}
}
