package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/d3vos/scout-go/internal/agent"
	"github.com/d3vos/scout-go/internal/embedder"
	"github.com/d3vos/scout-go/internal/memory"
	"github.com/d3vos/scout-go/internal/provider"
	"github.com/d3vos/scout-go/internal/rag"
	"github.com/d3vos/scout-go/internal/websearch"
)

// buildDocumentStore constructs the document retrieval side when QDRANT_HOST
// is set. Returns a nil store when document retrieval is not configured;
// the returned close function is always safe to call.
func buildDocumentStore(ctx context.Context, log *slog.Logger) (rag.DocumentStore, func(), error) {
	noop := func() {}

	if os.Getenv("QDRANT_HOST") == "" {
		log.Info("documents: QDRANT_HOST not set, document retrieval disabled")
		return nil, noop, nil
	}

	if err := embedder.ValidateForRAG(log); err != nil {
		return nil, noop, err
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to initialise embedder: %w", err)
	}

	embBackend := getEnvOrDefault("EMBEDDING_PROVIDER", getEnvOrDefault("MODEL_PROVIDER", "ollama"))
	qstore, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
		Host:       getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:       getEnvInt("QDRANT_PORT", 6334),
		Collection: getEnvOrDefault("QDRANT_COLLECTION", "scout-docs"),
		VectorSize: uint64(embedder.DefaultDimensions(embBackend)), //nolint:gosec // dimensions are bounded
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, noop, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	store, err := rag.NewStore(emb, qstore, getEnvInt("RETRIEVAL_TOP_K", 5))
	if err != nil {
		_ = qstore.Close()
		return nil, noop, fmt.Errorf("failed to build document store: %w", err)
	}

	log.Info("documents: store ready",
		slog.String("host", getEnvOrDefault("QDRANT_HOST", "localhost")),
		slog.String("collection", getEnvOrDefault("QDRANT_COLLECTION", "scout-docs")),
	)
	return store, func() { _ = qstore.Close() }, nil
}

// buildWebSearch constructs the Tavily client when TAVILY_API_KEY is set.
// Returns nil when web search is not configured.
func buildWebSearch(log *slog.Logger) (websearch.Client, error) {
	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		log.Info("websearch: TAVILY_API_KEY not set, web search disabled")
		return nil, nil
	}
	var domains []string
	if raw := os.Getenv("SEARCH_INCLUDE_DOMAINS"); raw != "" {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				domains = append(domains, d)
			}
		}
	}

	client, err := websearch.NewTavilyClient(&websearch.TavilyConfig{
		APIKey:         apiKey,
		Depth:          os.Getenv("SEARCH_DEPTH"),
		IncludeDomains: domains,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise web search: %w", err)
	}
	return client, nil
}

// buildMemory opens the conversation history store. SCOUT_HISTORY_DB
// overrides the default path (~/.scout/history.db); "disabled" turns
// persistence off and falls back to an in-process buffer.
func buildMemory(log *slog.Logger) (memory.Memory, func()) {
	noop := func() {}

	dbPath := os.Getenv("SCOUT_HISTORY_DB")
	if dbPath == "disabled" {
		log.Info("history: disabled via SCOUT_HISTORY_DB=disabled")
		return memory.NewBuffer(), noop
	}
	if dbPath == "" {
		var err error
		dbPath, err = memory.DefaultDBPath()
		if err != nil {
			log.Warn("history: could not resolve default DB path, using in-process buffer", slog.Any("error", err))
			return memory.NewBuffer(), noop
		}
	}

	store, err := memory.Open(dbPath)
	if err != nil {
		log.Warn("history: failed to open store, using in-process buffer", slog.Any("error", err))
		return memory.NewBuffer(), noop
	}
	log.Info("history: store opened", slog.String("path", dbPath))
	return store, func() { _ = store.Close() }
}

// buildAgent assembles the full pipeline: routing and synthesis models,
// the evidence coordinator, and conversation memory.
func buildAgent(ctx context.Context, log *slog.Logger, sessionID string) (*agent.ResearchAgent, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	routerModel, err := provider.NewFromEnv(ctx, provider.TierRouting)
	if err != nil {
		return nil, closeAll, fmt.Errorf("failed to initialise routing model: %w", err)
	}
	synthModel, err := provider.NewFromEnv(ctx, provider.TierSynthesis)
	if err != nil {
		return nil, closeAll, fmt.Errorf("failed to initialise synthesis model: %w", err)
	}

	routerLLM, err := agent.NewEinoModel(routerModel)
	if err != nil {
		return nil, closeAll, err
	}
	synthLLM, err := agent.NewEinoModel(synthModel)
	if err != nil {
		return nil, closeAll, err
	}

	docs, closeDocs, err := buildDocumentStore(ctx, log)
	if err != nil {
		return nil, closeAll, err
	}
	closers = append(closers, closeDocs)

	web, err := buildWebSearch(log)
	if err != nil {
		return nil, closeAll, err
	}

	mem, closeMem := buildMemory(log)
	closers = append(closers, closeMem)

	researchAgent, err := agent.New(&agent.Config{
		Router: agent.NewRouter(routerLLM),
		Coordinator: agent.NewCoordinator(&agent.CoordinatorConfig{
			Documents:     docs,
			Web:           web,
			TopK:          getEnvInt("RETRIEVAL_TOP_K", 5),
			MinScore:      getEnvFloat32("RETRIEVAL_MIN_SCORE", 0.5),
			MaxWebResults: getEnvInt("SEARCH_MAX_RESULTS", websearch.DefaultMaxResults),
		}),
		Synthesizer: agent.NewSynthesizer(synthLLM),
		Memory:      mem,
		SessionID:   sessionID,
	})
	if err != nil {
		return nil, closeAll, fmt.Errorf("failed to initialise agent: %w", err)
	}

	return researchAgent, closeAll, nil
}

// qdrantPingerClient builds a Qdrant client for readiness probing, or nil
// when document retrieval is not configured.
func qdrantPingerClient() (*qdrant.Client, error) {
	if os.Getenv("QDRANT_HOST") == "" {
		return nil, nil
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:   getEnvInt("QDRANT_PORT", 6334),
		APIKey: os.Getenv("QDRANT_API_KEY"),
		UseTLS: os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant pinger: %w", err)
	}
	return client, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
