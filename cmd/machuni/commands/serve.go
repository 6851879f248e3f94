package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/ShrillShrestha/Machuni/internal/logging"
	"github.com/ShrillShrestha/Machuni/internal/server"
	"github.com/ShrillShrestha/Machuni/internal/tracing"
)

// NewServeCmd constructs the `machuni serve` command, which starts the HTTP
// API for chat and starter-question generation.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Machuni HTTP API",
		Long: `Start the Machuni HTTP server on localhost.

The server exposes POST /api/chat and POST /api/starters, plus health,
readiness, and Prometheus metrics endpoints. Set MACHUNI_API_KEY to require
bearer-token authentication on the chat endpoints.

Examples:
  machuni serve
  machuni serve --port 9090
  MODEL_PROVIDER=azure machuni serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			// Flags win over SERVER_HOST/SERVER_PORT, which win over defaults.
			if !cmd.Flags().Changed("host") {
				host = getEnvOrDefault("SERVER_HOST", host)
			}
			if !cmd.Flags().Changed("port") {
				port = getEnvInt("SERVER_PORT", port)
			}

			log.Info("serve starting", slog.String("provider", getEnvOrDefault("MODEL_PROVIDER", "ollama")))

			// Langfuse tracing is opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			stack, err := buildStack(ctx, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer stack.Close()

			cfg := &server.Config{
				Host:   host,
				Port:   port,
				Logger: log,
				APIKey: os.Getenv("MACHUNI_API_KEY"),
				Pingers: []server.Pinger{
					server.NewQdrantPinger(stack.store.Client()),
					server.NewLLMPinger(stack.chatModel, getEnvOrDefault("MODEL_PROVIDER", "ollama")),
				},
			}

			// The registry verifies the collection/embedding-model binding and
			// records answered questions. Optional: the server runs without it.
			reg, err := openRegistry(log)
			if err != nil {
				log.Warn("registry unavailable, answer log disabled", slog.Any("error", err))
			} else if reg != nil {
				defer func() { _ = reg.Close() }()
				collection := getEnvOrDefault("QDRANT_COLLECTION", defaultCollection)
				if err := reg.BindEmbeddingModel(ctx, collection, stack.embInfo.Model, stack.embInfo.Dimensions); err != nil {
					return fmt.Errorf("serve: %w", err)
				}
				cfg.Recorder = reg
				log.Info("registry ready", slog.String("collection", collection))
			}

			srv, err := server.New(stack.assistant, cfg)
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
