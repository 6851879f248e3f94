package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/ShrillShrestha/Machuni/internal/assistant"
	"github.com/ShrillShrestha/Machuni/internal/embedder"
	"github.com/ShrillShrestha/Machuni/internal/provider"
	"github.com/ShrillShrestha/Machuni/internal/rag"
)

// defaultCollection is the Qdrant collection holding the newcomer corpus.
const defaultCollection = "immigration_docs"

// getEnvOrDefault returns the env var value or fallback if unset/empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the env var parsed as int, or fallback on absence or
// parse failure.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// requestTimeout returns the per-request model timeout from REQUEST_TIMEOUT
// (seconds, default 60).
func requestTimeout() time.Duration {
	return time.Duration(getEnvInt("REQUEST_TIMEOUT", 60)) * time.Second
}

// openVectorStore connects to Qdrant using the standard env vars, creating
// the collection with the given vector size if it does not exist yet.
func openVectorStore(ctx context.Context, vectorSize int) (*rag.QdrantStore, error) {
	host := getEnvOrDefault("QDRANT_HOST", "localhost")
	port := getEnvInt("QDRANT_PORT", 6334)

	qs, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
		Host:       host,
		Port:       port,
		Collection: getEnvOrDefault("QDRANT_COLLECTION", defaultCollection),
		VectorSize: uint64(vectorSize), //nolint:gosec // dimensions are bounded
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s:%d: %w", host, port, err)
	}
	return qs, nil
}

// ragStack bundles the wired components shared by ask, starters, and serve.
type ragStack struct {
	chatModel model.BaseChatModel
	embInfo   embedder.Info
	store     *rag.QdrantStore
	assistant *assistant.Assistant
}

// Close releases the stack's connections.
func (s *ragStack) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// buildStack wires the chat model, embedder, vector store, retriever, and
// assistant from environment configuration.
func buildStack(ctx context.Context, log *slog.Logger) (*ragStack, error) {
	chatModel, err := provider.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise model provider: %w", err)
	}

	timeout := requestTimeout()

	emb, info, err := embedder.NewFromEnv(timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise embedder: %w", err)
	}
	log.Debug("embedder initialised",
		slog.String("backend", info.Backend),
		slog.String("model", info.Model),
		slog.Int("dimensions", info.Dimensions))

	qs, err := openVectorStore(ctx, info.Dimensions)
	if err != nil {
		return nil, err
	}

	topK := getEnvInt("RAG_TOP_K", 5)
	retriever, err := rag.NewRetriever(emb, qs, topK)
	if err != nil {
		_ = qs.Close()
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	format, err := assistant.ParseFormat(os.Getenv("ANSWER_FORMAT"))
	if err != nil {
		_ = qs.Close()
		return nil, err
	}

	asst, err := assistant.New(assistant.Config{
		ChatModel: chatModel,
		Retriever: retriever,
		TopK:      topK,
		Format:    format,
		Timeout:   timeout,
		Logger:    log,
	})
	if err != nil {
		_ = qs.Close()
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}

	return &ragStack{
		chatModel: chatModel,
		embInfo:   info,
		store:     qs,
		assistant: asst,
	}, nil
}
