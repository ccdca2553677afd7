// Package websearch provides the live web search side of retrieval, backed
// by the Tavily search API over plain HTTP.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultMaxResults caps how many results a search returns when the caller
// does not override it.
const DefaultMaxResults = 5

// Result is one web search hit.
type Result struct {
	// Title is the page title.
	Title string

	// URL is the page address, used for numbered citations.
	URL string

	// Content is the extracted snippet relevant to the query.
	Content string

	// Rank is the 1-based position of this result in the response.
	Rank int
}

// Response is the outcome of a web search.
type Response struct {
	// Results holds the individual hits, best first.
	Results []Result

	// DirectAnswer is the search engine's own synthesized answer, when it
	// produced one. Advisory only; empty means absent.
	DirectAnswer string
}

// Client is the interface the agent consumes for web search.
// Implementations must be safe for concurrent use.
type Client interface {
	// Search runs a web search for the query and returns up to maxResults
	// hits. maxResults <= 0 selects DefaultMaxResults.
	Search(ctx context.Context, query string, maxResults int) (*Response, error)
}

// TavilyClient implements Client against the Tavily REST API.
// Safe for concurrent use.
type TavilyClient struct {
	baseURL string
	apiKey  string
	// depth is the Tavily search_depth parameter ("basic" or "advanced").
	depth   string
	domains []string
	client  *http.Client
}

// TavilyConfig holds the settings for constructing a TavilyClient.
type TavilyConfig struct {
	// APIKey is the Tavily API key.
	APIKey string

	// Depth is the search_depth parameter ("basic" or "advanced",
	// default "advanced").
	Depth string

	// IncludeDomains restricts results to the given domains. Empty means
	// no restriction.
	IncludeDomains []string

	// BaseURL overrides the API endpoint. Empty selects the public API.
	BaseURL string
}

// NewTavilyClient constructs a TavilyClient from the given config.
func NewTavilyClient(cfg *TavilyConfig) (*TavilyClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("websearch: tavily requires TAVILY_API_KEY")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	depth := cfg.Depth
	if depth == "" {
		depth = "advanced"
	}
	return &TavilyClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		depth:   depth,
		domains: cfg.IncludeDomains,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type tavilySearchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	MaxResults     int      `json:"max_results"`
	IncludeAnswer  bool     `json:"include_answer"`
	SearchDepth    string   `json:"search_depth"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

type tavilySearchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
	Error string `json:"error,omitempty"`
}

// Search runs a Tavily search and returns the ranked hits plus Tavily's own
// direct answer when one was produced.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) (*Response, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	payload, err := json.Marshal(tavilySearchRequest{
		APIKey:         c.apiKey,
		Query:          query,
		MaxResults:     maxResults,
		IncludeAnswer:  true,
		SearchDepth:    c.depth,
		IncludeDomains: c.domains,
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tavily: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: request failed: %w", err)
	}
	defer resp.Body.Close()

	var result tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if result.Error != "" {
			msg = result.Error
		}
		return nil, fmt.Errorf("tavily: %s", msg)
	}

	out := &Response{DirectAnswer: result.Answer}
	for i, r := range result.Results {
		out.Results = append(out.Results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Rank:    i + 1,
		})
	}

	return out, nil
}
