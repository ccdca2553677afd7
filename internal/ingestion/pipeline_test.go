package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/d3vos/scout-go/internal/rag"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

type captureStore struct {
	chunks     []rag.Chunk
	embeddings [][]float32
}

func (s *captureStore) Upsert(_ context.Context, chunks []rag.Chunk, embeddings [][]float32) error {
	s.chunks = append(s.chunks, chunks...)
	s.embeddings = append(s.embeddings, embeddings...)
	return nil
}

func (s *captureStore) Search(_ context.Context, _ []float32, _ int) ([]rag.Chunk, error) {
	return nil, nil
}

func (s *captureStore) Recreate(_ context.Context) error { return nil }

func (s *captureStore) Close() error { return nil }

func TestIngest(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("a", 120)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	store := &captureStore{}
	p, err := NewPipeline(fakeEmbedder{}, store, &Config{ChunkSize: 50, ChunkOverlap: 10})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	err = p.Ingest(context.Background(), []Source{{URL: srv.URL, ID: "arxiv:2405.10467"}}, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	// 120 chars at size 50, overlap 10: [0,50) [40,90) [80,120).
	if len(store.chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(store.chunks))
	}
	if len(store.embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(store.embeddings))
	}
	for i, c := range store.chunks {
		if c.Source != "arxiv:2405.10467" {
			t.Errorf("chunk %d source: got %q", i, c.Source)
		}
		if c.Page != i+1 {
			t.Errorf("chunk %d page: got %d, want %d", i, c.Page, i+1)
		}
		if c.ID == "" {
			t.Errorf("chunk %d has empty ID", i)
		}
	}
}

func TestChunk_RuneAlignedBoundaries(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(fakeEmbedder{}, &captureStore{}, &Config{ChunkSize: 10, ChunkOverlap: 3})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	// 30 multi-byte runes; any byte-offset split would land mid-rune.
	text := strings.Repeat("é", 10) + strings.Repeat("日", 10) + strings.Repeat("→", 10)
	chunks := p.chunk(text)

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c)
		}
		if n := utf8.RuneCountInString(c); n > 10 {
			t.Errorf("chunk %d has %d runes, want at most 10", i, n)
		}
	}
	// Consecutive chunks overlap by 3 runes, so dropping the first 3 runes
	// of every chunk after the first must reassemble the original text.
	var sb strings.Builder
	sb.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		sb.WriteString(string([]rune(c)[3:]))
	}
	if sb.String() != text {
		t.Errorf("chunks do not reassemble the input:\ngot:  %q\nwant: %q", sb.String(), text)
	}
}

func TestIngest_FetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p, err := NewPipeline(fakeEmbedder{}, &captureStore{}, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	if err := p.Ingest(context.Background(), []Source{{URL: srv.URL}}, nil); err == nil {
		t.Fatal("expected error for 404 fetch")
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	t.Parallel()

	a := chunkID("arxiv:2405.10467", 3)
	b := chunkID("arxiv:2405.10467", 3)
	if a != b {
		t.Errorf("chunkID not deterministic: %q vs %q", a, b)
	}
	if a == chunkID("arxiv:2405.10467", 4) {
		t.Error("different indices produced the same ID")
	}
	// UUID shape: 8-4-4-4-12 hex groups.
	if len(a) != 36 || strings.Count(a, "-") != 4 {
		t.Errorf("chunkID %q is not UUID-shaped", a)
	}
}
