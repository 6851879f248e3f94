package embedder

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

// clearEmbedderEnv unsets every env var the factory reads so tests are
// hermetic regardless of the developer's shell environment.
func clearEmbedderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EMBEDDING_PROVIDER", "EMBEDDING_MODEL", "EMBEDDING_API_KEY",
		"EMBEDDING_ENDPOINT", "EMBEDDING_DIMENSIONS",
		"MODEL_PROVIDER", "OLLAMA_HOST",
		"OPENAI_API_KEY", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_ENDPOINT",
		"AZURE_OPENAI_API_VERSION",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv_DefaultsToOllama(t *testing.T) {
	clearEmbedderEnv(t)

	emb, info, err := NewFromEnv(time.Second)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if _, ok := emb.(*OllamaEmbedder); !ok {
		t.Errorf("expected *OllamaEmbedder, got %T", emb)
	}
	if info.Backend != "ollama" {
		t.Errorf("expected backend ollama, got %q", info.Backend)
	}
	if info.Model != defaultOllamaModel {
		t.Errorf("expected model %q, got %q", defaultOllamaModel, info.Model)
	}
	if info.Dimensions != defaultOllamaDimensions {
		t.Errorf("expected %d dimensions, got %d", defaultOllamaDimensions, info.Dimensions)
	}
}

func TestNewFromEnv_InheritsModelProvider(t *testing.T) {
	clearEmbedderEnv(t)
	t.Setenv("MODEL_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	emb, info, err := NewFromEnv(time.Second)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if _, ok := emb.(*OpenAIEmbedder); !ok {
		t.Errorf("expected *OpenAIEmbedder, got %T", emb)
	}
	if info.Model != defaultOpenAIModel {
		t.Errorf("expected model %q, got %q", defaultOpenAIModel, info.Model)
	}
	if info.Dimensions != defaultOpenAIDimensions {
		t.Errorf("expected %d dimensions, got %d", defaultOpenAIDimensions, info.Dimensions)
	}
}

func TestNewFromEnv_ExplicitProviderWins(t *testing.T) {
	clearEmbedderEnv(t)
	t.Setenv("MODEL_PROVIDER", "openai")
	t.Setenv("EMBEDDING_PROVIDER", "ollama")

	emb, info, err := NewFromEnv(time.Second)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if _, ok := emb.(*OllamaEmbedder); !ok {
		t.Errorf("expected *OllamaEmbedder, got %T", emb)
	}
	if info.Backend != "ollama" {
		t.Errorf("expected backend ollama, got %q", info.Backend)
	}
}

func TestNewFromEnv_OpenAIRequiresKey(t *testing.T) {
	clearEmbedderEnv(t)
	t.Setenv("EMBEDDING_PROVIDER", "openai")

	if _, _, err := NewFromEnv(time.Second); err == nil {
		t.Error("expected error for missing OpenAI API key")
	}
}

func TestNewFromEnv_DimensionsOverride(t *testing.T) {
	clearEmbedderEnv(t)
	t.Setenv("EMBEDDING_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMBEDDING_DIMENSIONS", "3072")
	t.Setenv("EMBEDDING_MODEL", "text-embedding-3-large")

	_, info, err := NewFromEnv(time.Second)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if info.Dimensions != 3072 {
		t.Errorf("expected 3072 dimensions, got %d", info.Dimensions)
	}
	if info.Model != "text-embedding-3-large" {
		t.Errorf("expected model override, got %q", info.Model)
	}
}

func TestNewFromEnv_UnknownBackend(t *testing.T) {
	clearEmbedderEnv(t)
	t.Setenv("EMBEDDING_PROVIDER", "mystery")

	if _, _, err := NewFromEnv(time.Second); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestDefaultDimensions(t *testing.T) {
	clearEmbedderEnv(t)

	if got := DefaultDimensions("ollama"); got != defaultOllamaDimensions {
		t.Errorf("ollama: expected %d, got %d", defaultOllamaDimensions, got)
	}
	if got := DefaultDimensions("openai"); got != defaultOpenAIDimensions {
		t.Errorf("openai: expected %d, got %d", defaultOpenAIDimensions, got)
	}

	t.Setenv("EMBEDDING_DIMENSIONS", "512")
	if got := DefaultDimensions("ollama"); got != 512 {
		t.Errorf("override: expected 512, got %d", got)
	}
}

func TestValidateForRAG_ChatModelWarning(t *testing.T) {
	clearEmbedderEnv(t)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// A chat model name should warn but not fail.
	t.Setenv("EMBEDDING_MODEL", "llama3.2")
	if err := ValidateForRAG(log); err != nil {
		t.Errorf("chat-model warning should not be fatal: %v", err)
	}

	// A broken azure config should fail fast.
	t.Setenv("EMBEDDING_PROVIDER", "azure")
	if err := ValidateForRAG(log); err == nil {
		t.Error("expected error for azure without credentials")
	}
}
