package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShrillShrestha/Machuni/internal/embedder"
	"github.com/ShrillShrestha/Machuni/internal/ingestion"
	"github.com/ShrillShrestha/Machuni/internal/store"
)

// NewIngestCmd constructs the `machuni ingest` command, which walks a
// directory of PDFs and indexes them into the Qdrant vector store.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [directory]",
		Short: "Ingest a directory of PDF documents into the vector store",
		Long: `Walk a directory tree, extract text from every PDF, split it into chunks,
tag each chunk with a topic and language, embed the chunks, and write them to
the Qdrant vector store.

The collection is bound to the embedding model on first ingest. Re-ingesting
with a different EMBEDDING_MODEL is refused; drop and recreate the collection
to switch models.

Required environment variables:
  QDRANT_HOST          Qdrant server hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION    Collection name (default: immigration_docs)
  QDRANT_API_KEY       Optional API key for authenticated clusters
  MODEL_PROVIDER       Embedding backend: ollama, openai, azure (default: ollama)
  EMBEDDING_*          Provider-specific overrides (see README)

Examples:
  machuni ingest ./docs
  EMBEDDING_PROVIDER=openai machuni ingest /data/newcomer-corpus`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := slog.Default()
			root := args[0]

			if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
				return fmt.Errorf("ingest: %q is not a directory", root)
			}

			if err := embedder.ValidateForRAG(log); err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			emb, info, err := embedder.NewFromEnv(requestTimeout())
			if err != nil {
				return fmt.Errorf("ingest: failed to initialise embedder: %w", err)
			}
			log.Info("embedder initialised",
				slog.String("backend", info.Backend),
				slog.String("model", info.Model),
				slog.Int("dimensions", info.Dimensions))

			collection := getEnvOrDefault("QDRANT_COLLECTION", defaultCollection)

			// Bind the collection to the embedding model before writing any
			// vectors. A mismatch against a prior ingest aborts here.
			reg, err := openRegistry(log)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			if reg != nil {
				defer func() { _ = reg.Close() }()
				if err := reg.BindEmbeddingModel(ctx, collection, info.Model, info.Dimensions); err != nil {
					return fmt.Errorf("ingest: %w", err)
				}
			}

			qs, err := openVectorStore(ctx, info.Dimensions)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer func() { _ = qs.Close() }()
			log.Info("qdrant store ready", slog.String("collection", collection))

			pipeline, err := ingestion.NewPipeline(ingestion.Config{
				Chunker:  &ingestion.Chunker{Window: getEnvInt("CHUNK_WINDOW", ingestion.DefaultChunkWindow)},
				Embedder: emb,
				Store:    qs,
				Logger:   log,
			})
			if err != nil {
				return fmt.Errorf("ingest: failed to create pipeline: %w", err)
			}

			log.Info("starting ingestion", slog.String("root", root))

			summary, err := pipeline.Ingest(ctx, root, func(path string) {
				log.Info("processing document", slog.String("path", path))
			})
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			fmt.Printf("Ingested %d documents (%d chunks, %d failed)\n",
				summary.DocumentsProcessed, summary.ChunksWritten, summary.DocumentsFailed)
			return nil
		},
	}

	return cmd
}

// openRegistry opens the local SQLite registry. MACHUNI_DB overrides the
// default path (~/.machuni/machuni.db); set to "disabled" to skip the
// registry entirely.
func openRegistry(log *slog.Logger) (*store.SQLiteStore, error) {
	dbPath := os.Getenv("MACHUNI_DB")
	if dbPath == "disabled" {
		log.Info("registry disabled via MACHUNI_DB=disabled")
		return nil, nil
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("could not resolve registry path: %w", err)
		}
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry at %s: %w", dbPath, err)
	}
	return s, nil
}
