package ingestion

import (
	"fmt"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "a b c", "a b c"},
		{"newlines and tabs", "a\nb\t\tc", "a b c"},
		{"leading and trailing", "  hello world \n", "hello world"},
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	t.Parallel()

	c := &Chunker{Window: 500}
	if got := c.Split(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := c.Split("   \n  "); got != nil {
		t.Errorf("expected nil for whitespace input, got %v", got)
	}
}

func TestSplit_WindowSizes(t *testing.T) {
	t.Parallel()

	words := make([]string, 1200)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	text := strings.Join(words, " ")

	c := &Chunker{Window: 500}
	chunks := c.Split(text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 1200 words, got %d", len(chunks))
	}
	for i, want := range []int{500, 500, 200} {
		if got := len(strings.Fields(chunks[i])); got != want {
			t.Errorf("chunk %d: expected %d words, got %d", i, want, got)
		}
	}
}

// TestSplit_Reconstruction verifies the windows are non-overlapping and
// lossless: joining them reproduces the normalized input.
func TestSplit_Reconstruction(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 499, 500, 501, 1000, 1537} {
		words := make([]string, n)
		for i := range words {
			words[i] = fmt.Sprintf("w%d", i)
		}
		text := strings.Join(words, " ")

		c := &Chunker{Window: 500}
		if got := strings.Join(c.Split(text), " "); got != text {
			t.Errorf("n=%d: joined chunks do not reconstruct the input", n)
		}
	}
}

func TestSplit_DefaultWindow(t *testing.T) {
	t.Parallel()

	words := make([]string, DefaultChunkWindow+1)
	for i := range words {
		words[i] = "x"
	}

	c := &Chunker{}
	chunks := c.Split(strings.Join(words, " "))
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks with default window, got %d", len(chunks))
	}
}
