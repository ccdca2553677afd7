// Package rag defines the interfaces for the document retrieval side of the
// agent: vector storage, embedding, and the high-level document store the
// agent queries. Concrete implementations (Qdrant, HTTP embedders) satisfy
// these interfaces so the agent layer never depends on a specific backend.
package rag

import (
	"context"
)

// Chunk is one retrievable unit of an ingested document.
type Chunk struct {
	// ID is the unique identifier for this chunk (UUID).
	ID string

	// Source identifies the originating document, e.g. "arxiv:2405.10467"
	// or a file path.
	Source string

	// Page is the 1-based position of this chunk within its source
	// document. Used for citations of the form (source, page).
	Page int

	// Content is the raw text of the chunk.
	Content string

	// Score is the similarity score assigned at retrieval time (0.0-1.0).
	// Zero means the score was not computed.
	Score float32
}

// VectorStore persists and searches chunk embeddings.
// Implementations must be safe for concurrent use.
type VectorStore interface {
	// Upsert stores or updates a batch of chunks. The embeddings slice is
	// parallel to chunks: embeddings[i] is the vector for chunks[i].
	Upsert(ctx context.Context, chunks []Chunk, embeddings [][]float32) error

	// Search returns the top-k most similar chunks for the query embedding,
	// best match first.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]Chunk, error)

	// Recreate drops and re-creates the underlying collection, discarding
	// all stored chunks.
	Recreate(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Embedder converts text into dense vector embeddings.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentStore is the high-level retrieval interface the agent consumes.
// It combines query embedding, similarity search, and relevance filtering.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	// Query returns up to k chunks relevant to the query text, best match
	// first. Chunks scoring below minScore are dropped; the result may be
	// empty when nothing clears the threshold.
	Query(ctx context.Context, text string, k int, minScore float32) ([]Chunk, error)
}
