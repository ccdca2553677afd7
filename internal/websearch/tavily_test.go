package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewTavilyClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewTavilyClient(&TavilyConfig{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"answer": "Go 1.26 was released in February 2026.",
			"results": [
				{"title": "Go 1.26 Release Notes", "url": "https://go.dev/doc/go1.26", "content": "Go 1.26 arrives with..."},
				{"title": "Go Blog", "url": "https://go.dev/blog/go1.26", "content": "Announcing Go 1.26..."}
			]
		}`))
	}))
	defer srv.Close()

	client, err := NewTavilyClient(&TavilyConfig{APIKey: "tvly-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewTavilyClient: %v", err)
	}

	resp, err := client.Search(context.Background(), "when was go 1.26 released", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotBody["query"] != "when was go 1.26 released" {
		t.Errorf("query: got %v", gotBody["query"])
	}
	if gotBody["max_results"] != float64(DefaultMaxResults) {
		t.Errorf("max_results: got %v, want %d", gotBody["max_results"], DefaultMaxResults)
	}
	if gotBody["include_answer"] != true {
		t.Errorf("include_answer: got %v, want true", gotBody["include_answer"])
	}
	if gotBody["search_depth"] != "advanced" {
		t.Errorf("search_depth: got %v, want advanced", gotBody["search_depth"])
	}

	if resp.DirectAnswer == "" {
		t.Error("expected direct answer to be populated")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Rank != 1 || resp.Results[1].Rank != 2 {
		t.Errorf("ranks: got %d, %d", resp.Results[0].Rank, resp.Results[1].Rank)
	}
	if resp.Results[0].URL != "https://go.dev/doc/go1.26" {
		t.Errorf("url: got %q", resp.Results[0].URL)
	}
}

func TestSearch_IncludeDomains(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	client, err := NewTavilyClient(&TavilyConfig{
		APIKey:         "tvly-test",
		BaseURL:        srv.URL,
		IncludeDomains: []string{"go.dev", "pkg.go.dev"},
	})
	if err != nil {
		t.Fatalf("NewTavilyClient: %v", err)
	}

	if _, err := client.Search(context.Background(), "generics proposal", 3); err != nil {
		t.Fatalf("Search: %v", err)
	}

	domains, ok := gotBody["include_domains"].([]any)
	if !ok || len(domains) != 2 {
		t.Fatalf("include_domains: got %v", gotBody["include_domains"])
	}
	if domains[0] != "go.dev" || domains[1] != "pkg.go.dev" {
		t.Errorf("include_domains: got %v", domains)
	}
}

func TestSearch_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid api key"}`))
	}))
	defer srv.Close()

	client, err := NewTavilyClient(&TavilyConfig{APIKey: "tvly-bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewTavilyClient: %v", err)
	}

	_, err = client.Search(context.Background(), "anything", 3)
	if err == nil {
		t.Fatal("expected error from API failure")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("expected API error message, got %v", err)
	}
}
