package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/d3vos/scout-go/internal/logging"
	"github.com/d3vos/scout-go/internal/rag"
	"github.com/d3vos/scout-go/internal/websearch"
)

// Coordinator gathers evidence for a question according to the chosen route.
// Backend failures are absorbed: a failed source contributes no evidence and
// the pipeline continues, so the worst case is the fallback answer rather
// than a hard error.
type Coordinator struct {
	docs rag.DocumentStore
	web  websearch.Client

	// topK is how many document chunks to request per query.
	topK int

	// minScore is the relevance threshold below which chunks are dropped.
	minScore float32

	// maxWebResults caps web search hits per query.
	maxWebResults int
}

// CoordinatorConfig holds the construction parameters for a Coordinator.
type CoordinatorConfig struct {
	// Documents is the document store. May be nil when no store is
	// configured; document routes then produce no chunks.
	Documents rag.DocumentStore

	// Web is the web search client. May be nil when search is not
	// configured; web routes then produce no results.
	Web websearch.Client

	// TopK is the number of document chunks to request (default 5).
	TopK int

	// MinScore is the chunk relevance threshold (default 0.5).
	MinScore float32

	// MaxWebResults caps web hits per query (default websearch.DefaultMaxResults).
	MaxWebResults int
}

// NewCoordinator constructs a Coordinator from the given config.
func NewCoordinator(cfg *CoordinatorConfig) *Coordinator {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	minScore := cfg.MinScore
	if minScore <= 0 {
		minScore = 0.5
	}
	maxWeb := cfg.MaxWebResults
	if maxWeb <= 0 {
		maxWeb = websearch.DefaultMaxResults
	}
	return &Coordinator{
		docs:          cfg.Documents,
		web:           cfg.Web,
		topK:          topK,
		minScore:      minScore,
		maxWebResults: maxWeb,
	}
}

// Retrieve gathers evidence for the question along the given route.
// RouteDocuments fills only DocumentChunks, RouteWeb fills only WebResults,
// RouteBoth queries both sources concurrently and fills whatever each
// returned. The returned Evidence is never nil.
func (c *Coordinator) Retrieve(ctx context.Context, route Route, question string) *Evidence {
	ev := &Evidence{}

	switch route {
	case RouteDocuments:
		ev.DocumentChunks = c.queryDocuments(ctx, question)

	case RouteWeb:
		ev.WebResults, ev.DirectAnswer = c.queryWeb(ctx, question)

	case RouteBoth:
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			ev.DocumentChunks = c.queryDocuments(ctx, question)
		}()
		go func() {
			defer wg.Done()
			ev.WebResults, ev.DirectAnswer = c.queryWeb(ctx, question)
		}()
		wg.Wait()
	}

	return ev
}

// queryDocuments runs the document store query, absorbing failures.
func (c *Coordinator) queryDocuments(ctx context.Context, question string) []rag.Chunk {
	if c.docs == nil {
		return nil
	}
	chunks, err := c.docs.Query(ctx, question, c.topK, c.minScore)
	if err != nil {
		logging.FromContext(ctx).Warn("coordinator: document retrieval failed, continuing without documents",
			slog.Any("error", err),
		)
		return nil
	}
	return chunks
}

// queryWeb runs the web search, absorbing failures.
func (c *Coordinator) queryWeb(ctx context.Context, question string) ([]websearch.Result, string) {
	if c.web == nil {
		return nil, ""
	}
	resp, err := c.web.Search(ctx, question, c.maxWebResults)
	if err != nil {
		logging.FromContext(ctx).Warn("coordinator: web search failed, continuing without web results",
			slog.Any("error", err),
		)
		return nil, ""
	}
	return resp.Results, resp.DirectAnswer
}
