// Package ingestion implements the document ingestion pipeline.
// It fetches source documents (arXiv papers, web pages, plain text), chunks
// the content, embeds each chunk, and upserts the results into the vector
// store. This pipeline is invoked by the `scout ingest` CLI command.
package ingestion

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/d3vos/scout-go/internal/rag"
)

// Source describes one document to be ingested.
type Source struct {
	// URL is the HTTP(S) URL of the document to fetch.
	URL string

	// ID labels the document for citations, e.g. "arxiv:2405.10467".
	// When empty it is inferred from the URL.
	ID string
}

// Config holds the configuration for the ingestion pipeline.
type Config struct {
	// ChunkSize is the maximum number of characters per chunk.
	// Defaults to 1000 if zero.
	ChunkSize int

	// ChunkOverlap is the number of characters shared between consecutive
	// chunks. Defaults to 100 if zero or invalid.
	ChunkOverlap int

	// HTTPTimeout is the timeout for each document fetch.
	// Defaults to 30s if zero.
	HTTPTimeout time.Duration

	// UserAgent is the HTTP User-Agent header sent with fetch requests.
	UserAgent string
}

// Pipeline orchestrates the fetch, chunk, embed, upsert flow for a set of
// document sources.
type Pipeline struct {
	embedder   rag.Embedder
	store      rag.VectorStore
	cfg        *Config
	httpClient *http.Client
}

// NewPipeline constructs a Pipeline from the provided dependencies and config.
func NewPipeline(embedder rag.Embedder, store rag.VectorStore, cfg *Config) (*Pipeline, error) {
	if embedder == nil {
		return nil, fmt.Errorf("ingestion: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("ingestion: store must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap <= 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 100
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "scout-go/1.0 (document ingestion)"
	}

	return &Pipeline{
		embedder:   embedder,
		store:      store,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

// Ingest fetches, chunks, embeds, and stores all provided sources.
// Sources are processed sequentially; the first error stops the run.
// Progress is reported via the optional progress callback.
func (p *Pipeline) Ingest(ctx context.Context, sources []Source, progress func(msg string)) error {
	if progress == nil {
		progress = func(string) {}
	}

	for _, src := range sources {
		sourceID := src.ID
		if sourceID == "" {
			sourceID = InferSourceID(src.URL)
		}

		progress(fmt.Sprintf("fetching %s", src.URL))

		content, err := p.fetch(ctx, src.URL)
		if err != nil {
			return fmt.Errorf("ingestion: fetch failed for %s: %w", src.URL, err)
		}

		texts := p.chunk(content)
		progress(fmt.Sprintf("chunked %s into %d chunks", sourceID, len(texts)))

		if len(texts) == 0 {
			continue
		}

		embeddings, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("ingestion: embedding failed for %s: %w", src.URL, err)
		}

		chunks := make([]rag.Chunk, 0, len(texts))
		for i, text := range texts {
			chunks = append(chunks, rag.Chunk{
				ID:      chunkID(sourceID, i),
				Source:  sourceID,
				Page:    i + 1,
				Content: text,
			})
		}

		if err := p.store.Upsert(ctx, chunks, embeddings); err != nil {
			return fmt.Errorf("ingestion: upsert failed for %s: %w", src.URL, err)
		}

		progress(fmt.Sprintf("ingested %d chunks from %s", len(chunks), sourceID))
	}

	return nil
}

// fetch retrieves the raw text content of a URL.
func (p *Pipeline) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept", "text/plain, text/html")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	return string(body), nil
}

// chunk splits text into overlapping chunks of cfg.ChunkSize characters.
// Boundaries are rune-aligned so a multi-byte character is never split
// across chunks.
func (p *Pipeline) chunk(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	size := p.cfg.ChunkSize
	overlap := p.cfg.ChunkOverlap

	for start := 0; start < len(runes); start += size - overlap {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// chunkID derives a deterministic UUID-shaped ID for a chunk from its source
// label and position. Re-ingesting the same source overwrites in place
// instead of duplicating points.
func chunkID(sourceID string, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", sourceID, index)))
	return fmt.Sprintf("%x-%x-%x-%x-%x", h[0:4], h[4:6], h[6:8], h[8:10], h[10:16])
}
