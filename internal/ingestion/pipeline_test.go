package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ShrillShrestha/Machuni/internal/rag"
)

// fakeExtractor serves canned text keyed by file base name and fails for
// paths listed in failFor.
type fakeExtractor struct {
	texts   map[string]string
	failFor map[string]bool
}

func (f *fakeExtractor) Extract(path string) (string, error) {
	base := filepath.Base(path)
	if f.failFor[base] {
		return "", fmt.Errorf("unreadable document")
	}
	return f.texts[base], nil
}

// fakeIngestEmbedder returns a constant vector per text.
type fakeIngestEmbedder struct {
	err error
}

func (f *fakeIngestEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

// memStore accumulates every chunk it receives.
type memStore struct {
	chunks []rag.Chunk
}

func (m *memStore) Add(_ context.Context, chunks []rag.Chunk, _ [][]float32) error {
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *memStore) Query(context.Context, []float32, int) ([]rag.Chunk, error) {
	return nil, nil
}

func (m *memStore) Close() error { return nil }

// fixedDetector avoids loading the lingua models in pipeline tests.
type fixedDetector struct{ code string }

func (d *fixedDetector) Detect(string) string { return d.code }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writePDFs creates empty placeholder files (the fake extractor never reads
// them) and returns the directory root.
func writePDFs(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newTestPipeline(t *testing.T, extractor TextExtractor, store rag.VectorStore, embedder rag.Embedder) *Pipeline {
	t.Helper()
	p, err := NewPipeline(Config{
		Extractor: extractor,
		Chunker:   &Chunker{Window: 5},
		Detector:  &fixedDetector{code: "en"},
		Embedder:  embedder,
		Store:     store,
		Logger:    quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestIngest_CountsAndMetadata(t *testing.T) {
	t.Parallel()

	root := writePDFs(t, "immigration/visa-guide.pdf", "notes.txt")
	extractor := &fakeExtractor{texts: map[string]string{
		// 7 words with window 5 → 2 chunks.
		"visa-guide.pdf": "one two three four five six seven",
	}}
	store := &memStore{}

	p := newTestPipeline(t, extractor, store, &fakeIngestEmbedder{})
	sum, err := p.Ingest(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if sum.DocumentsProcessed != 1 || sum.ChunksWritten != 2 || sum.DocumentsFailed != 0 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if len(store.chunks) != 2 {
		t.Fatalf("expected 2 chunks in store, got %d", len(store.chunks))
	}
	for _, c := range store.chunks {
		if c.Source != "visa-guide.pdf" {
			t.Errorf("expected source visa-guide.pdf, got %q", c.Source)
		}
		if c.Topic != "immigration" {
			t.Errorf("expected topic immigration, got %q", c.Topic)
		}
		if c.Language != "en" {
			t.Errorf("expected language en, got %q", c.Language)
		}
		if c.ID == "" {
			t.Error("chunk missing ID")
		}
	}
}

// TestIngest_FailureIsolation verifies that a document-level failure is
// counted but does not abort the run or taint other documents.
func TestIngest_FailureIsolation(t *testing.T) {
	t.Parallel()

	root := writePDFs(t, "a.pdf", "b.pdf", "c.pdf")
	extractor := &fakeExtractor{
		texts: map[string]string{
			"a.pdf": "alpha beta gamma",
			"c.pdf": "delta epsilon zeta",
		},
		failFor: map[string]bool{"b.pdf": true},
	}
	store := &memStore{}

	p := newTestPipeline(t, extractor, store, &fakeIngestEmbedder{})
	sum, err := p.Ingest(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if sum.DocumentsProcessed != 2 {
		t.Errorf("expected 2 processed, got %d", sum.DocumentsProcessed)
	}
	if sum.DocumentsFailed != 1 {
		t.Errorf("expected 1 failed, got %d", sum.DocumentsFailed)
	}
	if len(store.chunks) != 2 {
		t.Errorf("expected 2 chunks from the surviving documents, got %d", len(store.chunks))
	}
}

func TestIngest_EmptyDocument(t *testing.T) {
	t.Parallel()

	root := writePDFs(t, "blank.pdf")
	extractor := &fakeExtractor{texts: map[string]string{"blank.pdf": "  \n "}}
	store := &memStore{}

	p := newTestPipeline(t, extractor, store, &fakeIngestEmbedder{})
	sum, err := p.Ingest(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	// An empty document is processed, not failed, and writes nothing.
	if sum.DocumentsProcessed != 1 || sum.ChunksWritten != 0 || sum.DocumentsFailed != 0 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

// TestIngest_DuplicateRun documents that re-ingestion duplicates content:
// every run writes fresh chunk IDs.
func TestIngest_DuplicateRun(t *testing.T) {
	t.Parallel()

	root := writePDFs(t, "a.pdf")
	extractor := &fakeExtractor{texts: map[string]string{"a.pdf": "one two three"}}
	store := &memStore{}

	p := newTestPipeline(t, extractor, store, &fakeIngestEmbedder{})
	for i := 0; i < 2; i++ {
		if _, err := p.Ingest(context.Background(), root, nil); err != nil {
			t.Fatalf("Ingest run %d: %v", i, err)
		}
	}

	if len(store.chunks) != 2 {
		t.Fatalf("expected 2 chunks after two runs, got %d", len(store.chunks))
	}
	if store.chunks[0].ID == store.chunks[1].ID {
		t.Error("expected distinct chunk IDs across runs")
	}
}

func TestIngest_EmbedderFailure(t *testing.T) {
	t.Parallel()

	root := writePDFs(t, "a.pdf")
	extractor := &fakeExtractor{texts: map[string]string{"a.pdf": "one two three"}}

	p := newTestPipeline(t, extractor, &memStore{}, &fakeIngestEmbedder{err: fmt.Errorf("backend down")})
	sum, err := p.Ingest(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if sum.DocumentsFailed != 1 || sum.DocumentsProcessed != 0 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestIngest_CaseInsensitiveExtension(t *testing.T) {
	t.Parallel()

	root := writePDFs(t, "GUIDE.PDF")
	extractor := &fakeExtractor{texts: map[string]string{"GUIDE.PDF": "one two three"}}
	store := &memStore{}

	p := newTestPipeline(t, extractor, store, &fakeIngestEmbedder{})
	sum, err := p.Ingest(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if sum.DocumentsProcessed != 1 {
		t.Errorf("expected uppercase .PDF to be ingested, summary: %+v", sum)
	}
}

func TestIngest_ProgressCallback(t *testing.T) {
	t.Parallel()

	root := writePDFs(t, "a.pdf", "sub/b.pdf")
	extractor := &fakeExtractor{texts: map[string]string{
		"a.pdf": "one two",
		"b.pdf": "three four",
	}}

	var seen []string
	p := newTestPipeline(t, extractor, &memStore{}, &fakeIngestEmbedder{})
	if _, err := p.Ingest(context.Background(), root, func(path string) {
		seen = append(seen, filepath.Base(path))
	}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 progress calls, got %d: %v", len(seen), seen)
	}
	joined := strings.Join(seen, ",")
	if !strings.Contains(joined, "a.pdf") || !strings.Contains(joined, "b.pdf") {
		t.Errorf("progress calls missing documents: %v", seen)
	}
}

func TestIngest_MissingRoot(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, &fakeExtractor{}, &memStore{}, &fakeIngestEmbedder{})
	if _, err := p.Ingest(context.Background(), "/does/not/exist", nil); err == nil {
		t.Error("expected error for missing root directory")
	}
}
