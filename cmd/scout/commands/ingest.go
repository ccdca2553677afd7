package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/d3vos/scout-go/internal/embedder"
	"github.com/d3vos/scout-go/internal/ingestion"
	"github.com/d3vos/scout-go/internal/logging"
	"github.com/d3vos/scout-go/internal/rag"
)

// NewIngestCmd constructs the `scout ingest` command, which runs the
// document ingestion pipeline to populate the vector store.
func NewIngestCmd() *cobra.Command {
	var urls []string
	var ids []string
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest documents into the vector store",
		Long: `Fetch and index documents into the Qdrant vector store.

Ingested documents become the agent's local knowledge base. Questions routed
to document retrieval are answered from these chunks, with citations back to
the source identifier and page.

Required environment variables:
  QDRANT_HOST          Qdrant server hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION    Collection name (default: scout-docs)
  QDRANT_API_KEY       Optional API key for authenticated clusters
  MODEL_PROVIDER       Embedding backend: ollama, openai, azure (default: ollama)
  EMBEDDING_*          Provider-specific overrides (see README)

Source identifiers (--id) are optional and positional: the first --id labels
the first --url, and so on. When omitted, identifiers are inferred from the
URL (arXiv URLs resolve to "arxiv:{id}" automatically).

Examples:
  scout ingest --url https://arxiv.org/abs/2405.10467
  scout ingest --url https://example.com/paper.html --id "smith2024"
  scout ingest --rebuild --url https://arxiv.org/abs/2405.10467`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			if len(urls) == 0 {
				return fmt.Errorf("ingest: at least one --url is required")
			}
			if len(ids) > len(urls) {
				return fmt.Errorf("ingest: more --id values (%d) than --url values (%d)", len(ids), len(urls))
			}

			if err := embedder.ValidateForRAG(log); err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			emb, err := embedder.NewFromEnv()
			if err != nil {
				return fmt.Errorf("ingest: failed to initialise embedder: %w", err)
			}
			embBackend := getEnvOrDefault("EMBEDDING_PROVIDER", getEnvOrDefault("MODEL_PROVIDER", "ollama"))
			log.Info("embedder initialised", slog.String("provider", embBackend))

			qdrantHost := getEnvOrDefault("QDRANT_HOST", "localhost")
			qdrantPort := getEnvInt("QDRANT_PORT", 6334)
			collection := getEnvOrDefault("QDRANT_COLLECTION", "scout-docs")
			vectorSize := uint64(embedder.DefaultDimensions(embBackend)) //nolint:gosec // dimensions are bounded

			store, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
				Host:       qdrantHost,
				Port:       qdrantPort,
				Collection: collection,
				VectorSize: vectorSize,
				APIKey:     os.Getenv("QDRANT_API_KEY"),
				UseTLS:     os.Getenv("QDRANT_TLS") == "true",
			})
			if err != nil {
				return fmt.Errorf("ingest: failed to connect to Qdrant at %s:%d: %w", qdrantHost, qdrantPort, err)
			}
			defer store.Close()
			log.Info("qdrant store ready", slog.String("host", qdrantHost), slog.Int("port", qdrantPort), slog.String("collection", collection))

			if rebuild {
				log.Info("rebuilding collection", slog.String("collection", collection))
				if err := store.Recreate(ctx); err != nil {
					return fmt.Errorf("ingest: failed to rebuild collection: %w", err)
				}
			}

			pipeline, err := ingestion.NewPipeline(emb, store, nil)
			if err != nil {
				return fmt.Errorf("ingest: failed to create pipeline: %w", err)
			}

			sources := make([]ingestion.Source, 0, len(urls))
			for i, u := range urls {
				src := ingestion.Source{URL: u}
				if i < len(ids) {
					src.ID = ids[i]
				} else {
					src.ID = ingestion.InferSourceID(u)
				}

				log.Info("source", slog.String("url", u), slog.String("id", src.ID))
				sources = append(sources, src)
			}

			log.Info("starting ingestion", slog.Int("sources", len(sources)))

			if err := pipeline.Ingest(ctx, sources, func(msg string) {
				log.Info(msg)
			}); err != nil {
				return fmt.Errorf("ingest: pipeline failed: %w", err)
			}

			log.Info("ingestion complete", slog.Int("sources", len(sources)))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&urls, "url", "u", nil, "Document URL to ingest (repeatable)")
	cmd.Flags().StringArrayVar(&ids, "id", nil, "Source identifier for the matching --url (repeatable, positional)")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Drop and recreate the collection before ingesting")

	return cmd
}
