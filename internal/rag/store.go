package rag

import (
	"context"
	"fmt"
)

// DefaultStore implements DocumentStore by combining an Embedder and a
// VectorStore. It embeds the query at retrieval time, delegates similarity
// search to the store, and filters out low-relevance results.
type DefaultStore struct {
	embedder Embedder
	store    VectorStore

	// defaultTopK is the result count used when the caller passes k <= 0.
	defaultTopK int
}

// NewStore constructs a DefaultStore from the given Embedder and VectorStore.
// defaultTopK sets the fallback result count when Query is called with k=0.
func NewStore(embedder Embedder, store VectorStore, defaultTopK int) (*DefaultStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("rag: store must not be nil")
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &DefaultStore{
		embedder:    embedder,
		store:       store,
		defaultTopK: defaultTopK,
	}, nil
}

// Query embeds the text, searches the vector store, and returns the chunks
// scoring at or above minScore, best match first. An empty result is not an
// error: it means nothing in the index is relevant enough.
func (s *DefaultStore) Query(ctx context.Context, text string, k int, minScore float32) ([]Chunk, error) {
	if k <= 0 {
		k = s.defaultTopK
	}

	embeddings, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for query")
	}

	chunks, err := s.store.Search(ctx, embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search failed: %w", err)
	}

	// Search returns results best-first, so relevant chunks form a prefix.
	filtered := chunks[:0:len(chunks)]
	for _, c := range chunks {
		if c.Score >= minScore {
			filtered = append(filtered, c)
		}
	}

	return filtered, nil
}
