package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/d3vos/scout-go/internal/logging"
	"github.com/d3vos/scout-go/internal/server"
	"github.com/d3vos/scout-go/internal/tracing"
)

// NewServeCmd constructs the `scout serve` command, which starts the HTTP
// API server.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Scout HTTP API server",
		Long: `Start the Scout HTTP server on localhost.

The server exposes POST /api/ask for streaming question answering (SSE),
GET /api/health and /api/ready for probes, and GET /metrics for Prometheus.
Each /api/ask request may carry a session identifier for multi-turn
conversations; requests without one share the server's default session.

Examples:
  scout serve
  scout serve --port 9090
  MODEL_PROVIDER=azure scout serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Setup Langfuse tracing. Opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			researchAgent, closeAgent, err := buildAgent(ctx, log, "")
			if err != nil {
				closeAgent()
				return fmt.Errorf("serve: %w", err)
			}
			defer closeAgent()

			pingers := buildPingers(log)

			srv, err := server.New(researchAgent, &server.Config{
				Host:    host,
				Port:    port,
				Logger:  log,
				Pingers: pingers,
				APIKey:  os.Getenv("SCOUT_API_KEY"),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}

// buildPingers assembles readiness probes for the configured backends.
// Only backends that are actually wired get a probe.
func buildPingers(log *slog.Logger) []server.Pinger {
	var pingers []server.Pinger

	qc, err := qdrantPingerClient()
	if err != nil {
		log.Warn("readiness: qdrant probe unavailable", slog.Any("error", err))
	} else if qc != nil {
		pingers = append(pingers, server.NewQdrantPinger(qc))
	}

	if getEnvOrDefault("MODEL_PROVIDER", "ollama") == "ollama" {
		ollamaHost := getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434")
		pingers = append(pingers, server.NewHTTPPinger("ollama", ollamaHost))
	}

	return pingers
}
