package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ShrillShrestha/Machuni/internal/rag"
)

// Summary reports the outcome of an ingestion run.
type Summary struct {
	// DocumentsProcessed counts documents whose chunks were written to the
	// store. Documents that produced zero chunks still count as processed.
	DocumentsProcessed int

	// ChunksWritten counts chunks written to the store across all documents.
	ChunksWritten int

	// DocumentsFailed counts documents skipped because extraction, embedding,
	// or the store write failed.
	DocumentsFailed int
}

// Pipeline walks a directory tree, extracts and chunks every PDF, tags each
// chunk with a topic and language, embeds the chunks, and writes them to the
// vector store.
//
// Re-ingesting the same directory writes new chunk IDs — the pipeline does
// not deduplicate. Drop and recreate the collection to rebuild the corpus.
type Pipeline struct {
	extractor  TextExtractor
	chunker    *Chunker
	classifier TopicClassifier
	detector   LanguageDetector
	embedder   rag.Embedder
	store      rag.VectorStore
	log        *slog.Logger
}

// Config holds the dependencies for constructing a Pipeline. Extractor,
// Classifier, and Detector default to the standard implementations when nil;
// Embedder and Store are required.
type Config struct {
	Extractor  TextExtractor
	Chunker    *Chunker
	Classifier TopicClassifier
	Detector   LanguageDetector
	Embedder   rag.Embedder
	Store      rag.VectorStore
	Logger     *slog.Logger
}

// NewPipeline constructs a Pipeline from cfg.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("ingestion: embedder must not be nil")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("ingestion: store must not be nil")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = NewPDFExtractor()
	}
	if cfg.Chunker == nil {
		cfg.Chunker = &Chunker{Window: DefaultChunkWindow}
	}
	if cfg.Classifier == nil {
		cfg.Classifier = NewPathClassifier()
	}
	if cfg.Detector == nil {
		cfg.Detector = NewLinguaDetector()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Pipeline{
		extractor:  cfg.Extractor,
		chunker:    cfg.Chunker,
		classifier: cfg.Classifier,
		detector:   cfg.Detector,
		embedder:   cfg.Embedder,
		store:      cfg.Store,
		log:        cfg.Logger,
	}, nil
}

// Ingest walks root recursively and ingests every PDF found. progress, if
// non-nil, is called with the path of each document before it is processed.
// A document-level failure is logged and counted, never fatal; the returned
// error covers only walk-level problems (e.g. root does not exist).
func (p *Pipeline) Ingest(ctx context.Context, root string, progress func(path string)) (Summary, error) {
	var sum Summary

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		if progress != nil {
			progress(path)
		}

		written, err := p.ingestDocument(ctx, path)
		if err != nil {
			p.log.Error("document ingestion failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			sum.DocumentsFailed++
			return nil
		}

		sum.DocumentsProcessed++
		sum.ChunksWritten += written
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("ingestion: walk %s: %w", root, err)
	}

	p.log.Info("ingestion complete",
		slog.Int("documents_processed", sum.DocumentsProcessed),
		slog.Int("chunks_written", sum.ChunksWritten),
		slog.Int("documents_failed", sum.DocumentsFailed),
	)

	return sum, nil
}

// ingestDocument runs one document through the full pipeline and returns the
// number of chunks written.
func (p *Pipeline) ingestDocument(ctx context.Context, path string) (int, error) {
	raw, err := p.extractor.Extract(path)
	if err != nil {
		return 0, err
	}

	pieces := p.chunker.Split(Normalize(raw))
	if len(pieces) == 0 {
		p.log.Warn("document produced no text", slog.String("path", path))
		return 0, nil
	}

	// The topic comes from the path and is shared by every chunk of the
	// document; the language is detected per chunk since documents mix
	// languages (e.g. a Nepali guide with English form excerpts).
	topic := p.classifier.Classify(path)
	source := filepath.Base(path)

	chunks := make([]rag.Chunk, len(pieces))
	for i, text := range pieces {
		chunks[i] = rag.Chunk{
			ID:       uuid.NewString(),
			Text:     text,
			Source:   source,
			Language: p.detector.Detect(text),
			Topic:    topic,
		}
	}

	vectors, err := p.embedder.Embed(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed: expected %d vectors, got %d", len(chunks), len(vectors))
	}

	if err := p.store.Add(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}

	p.log.Debug("document ingested",
		slog.String("source", source),
		slog.String("topic", topic),
		slog.Int("chunks", len(chunks)),
	)

	return len(chunks), nil
}
