package agent

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/d3vos/scout-go/internal/rag"
	"github.com/d3vos/scout-go/internal/websearch"
)

// fakeDocs is a canned rag.DocumentStore.
type fakeDocs struct {
	chunks []rag.Chunk
	err    error
	delay  time.Duration
}

func (f *fakeDocs) Query(ctx context.Context, _ string, _ int, _ float32) ([]rag.Chunk, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

// fakeWeb is a canned websearch.Client.
type fakeWeb struct {
	resp  *websearch.Response
	err   error
	delay time.Duration
}

func (f *fakeWeb) Search(ctx context.Context, _ string, _ int) (*websearch.Response, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

var (
	someChunks = []rag.Chunk{{ID: "c1", Source: "arxiv:2405.10467", Page: 2, Content: "..."}}
	someWeb    = &websearch.Response{
		Results:      []websearch.Result{{Title: "t", URL: "https://example.com", Content: "...", Rank: 1}},
		DirectAnswer: "short answer",
	}
)

func TestRetrieve_DocumentsRouteOnlyFillsDocuments(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{
		Documents: &fakeDocs{chunks: someChunks},
		Web:       &fakeWeb{resp: someWeb},
	})

	ev := c.Retrieve(context.Background(), RouteDocuments, "q")
	if len(ev.DocumentChunks) != 1 {
		t.Errorf("expected 1 document chunk, got %d", len(ev.DocumentChunks))
	}
	if len(ev.WebResults) != 0 || ev.DirectAnswer != "" {
		t.Error("documents route must not populate web fields")
	}
}

func TestRetrieve_WebRouteOnlyFillsWeb(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{
		Documents: &fakeDocs{chunks: someChunks},
		Web:       &fakeWeb{resp: someWeb},
	})

	ev := c.Retrieve(context.Background(), RouteWeb, "q")
	if len(ev.WebResults) != 1 {
		t.Errorf("expected 1 web result, got %d", len(ev.WebResults))
	}
	if ev.DirectAnswer != "short answer" {
		t.Errorf("direct answer: got %q", ev.DirectAnswer)
	}
	if len(ev.DocumentChunks) != 0 {
		t.Error("web route must not populate document chunks")
	}
}

func TestRetrieve_BothRouteFillsBoth(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{
		Documents: &fakeDocs{chunks: someChunks, delay: 20 * time.Millisecond},
		Web:       &fakeWeb{resp: someWeb, delay: 20 * time.Millisecond},
	})

	start := time.Now()
	ev := c.Retrieve(context.Background(), RouteBoth, "q")
	elapsed := time.Since(start)

	if len(ev.DocumentChunks) != 1 || len(ev.WebResults) != 1 {
		t.Errorf("expected both sources populated, got %d chunks / %d web results",
			len(ev.DocumentChunks), len(ev.WebResults))
	}
	// Both sources run concurrently, so the total should be well under the
	// 40ms a sequential run would take.
	if elapsed > 35*time.Millisecond {
		t.Errorf("both-route retrieval took %v, expected concurrent execution", elapsed)
	}
}

func TestRetrieve_RepeatedQueryReturnsSameEvidence(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{
		Documents: &fakeDocs{chunks: someChunks},
		Web:       &fakeWeb{resp: someWeb},
	})

	for _, route := range []Route{RouteDocuments, RouteWeb, RouteBoth} {
		first := c.Retrieve(context.Background(), route, "q")
		second := c.Retrieve(context.Background(), route, "q")
		if !reflect.DeepEqual(first, second) {
			t.Errorf("route %q: repeated retrieval diverged:\nfirst:  %+v\nsecond: %+v", route, first, second)
		}
	}
}

func TestRetrieve_BothRouteMatchesSequentialRuns(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{
		Documents: &fakeDocs{chunks: someChunks},
		Web:       &fakeWeb{resp: someWeb},
	})

	docsOnly := c.Retrieve(context.Background(), RouteDocuments, "q")
	webOnly := c.Retrieve(context.Background(), RouteWeb, "q")
	both := c.Retrieve(context.Background(), RouteBoth, "q")

	// Running both sources concurrently must yield exactly what the two
	// single-source runs yield.
	if !reflect.DeepEqual(both.DocumentChunks, docsOnly.DocumentChunks) {
		t.Errorf("both-route chunks diverge from documents-route: %+v vs %+v",
			both.DocumentChunks, docsOnly.DocumentChunks)
	}
	if !reflect.DeepEqual(both.WebResults, webOnly.WebResults) {
		t.Errorf("both-route web results diverge from web-route: %+v vs %+v",
			both.WebResults, webOnly.WebResults)
	}
	if both.DirectAnswer != webOnly.DirectAnswer {
		t.Errorf("both-route direct answer diverges: %q vs %q", both.DirectAnswer, webOnly.DirectAnswer)
	}
}

func TestRetrieve_BackendFailureYieldsEmptyEvidence(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{
		Documents: &fakeDocs{err: errors.New("qdrant down")},
		Web:       &fakeWeb{err: errors.New("tavily down")},
	})

	ev := c.Retrieve(context.Background(), RouteBoth, "q")
	if !ev.Empty() {
		t.Error("expected empty evidence when every backend fails")
	}
}

func TestRetrieve_PartialFailureKeepsOtherSource(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{
		Documents: &fakeDocs{err: errors.New("qdrant down")},
		Web:       &fakeWeb{resp: someWeb},
	})

	ev := c.Retrieve(context.Background(), RouteBoth, "q")
	if len(ev.DocumentChunks) != 0 {
		t.Error("failed document backend must contribute nothing")
	}
	if len(ev.WebResults) != 1 {
		t.Error("healthy web backend must still contribute")
	}
}

func TestRetrieve_NilBackends(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(&CoordinatorConfig{})

	for _, route := range []Route{RouteDocuments, RouteWeb, RouteBoth} {
		ev := c.Retrieve(context.Background(), route, "q")
		if !ev.Empty() {
			t.Errorf("route %q: expected empty evidence with no backends configured", route)
		}
	}
}
