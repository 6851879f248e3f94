// Package rag defines the interfaces for the retrieval substrate of the
// assistant: vector storage, chunk retrieval, and embedding.
// Concrete implementations (Qdrant, the embedder backends) satisfy these
// interfaces so the assistant and the ingestion pipeline never depend on a
// specific backend.
package rag

import (
	"context"
)

// Chunk is the unit of retrieval: a fixed-size slice of a source document's
// text together with its descriptive metadata.
type Chunk struct {
	// ID is the unique identifier of this chunk within the collection.
	ID string

	// Text is the chunk's plain-text content.
	Text string

	// Source is the file name of the document the chunk was cut from.
	Source string

	// Language is the detected language code of the chunk text, or the
	// literal "unknown" when detection failed.
	Language string

	// Topic is the coarse document category assigned at ingestion time.
	// Always one of the labels in the ingestion package's topic vocabulary.
	Topic string

	// Score is the similarity score assigned during retrieval.
	// Zero value means the score was not computed (e.g. at ingestion time).
	Score float32
}

// VectorStore is the interface for persisting and searching chunk embeddings.
// Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Add stores a batch of chunks with their pre-computed embeddings.
	// The vectors slice must be parallel to chunks — vectors[i] is the
	// embedding of chunks[i].Text. Chunks are append-only: Add never
	// updates or deletes existing records.
	Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error

	// Query performs a similarity search and returns the top-k most
	// relevant chunks for the given query embedding, most relevant first.
	// An empty or missing collection yields an empty slice, not an error.
	Query(ctx context.Context, queryEmbedding []float32, topK int) ([]Chunk, error)

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever is the high-level interface used by the assistant to fetch
// relevant context for a question. It combines embedding and vector search.
// Implementations must be safe to call from multiple goroutines.
type Retriever interface {
	// Retrieve returns the top-k most relevant chunks for the question.
	Retrieve(ctx context.Context, question string, topK int) ([]Chunk, error)
}
