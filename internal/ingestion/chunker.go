package ingestion

import "strings"

// DefaultChunkWindow is the number of words per chunk. Embedding models
// handle passages of a few hundred words well; larger windows dilute the
// similarity signal.
const DefaultChunkWindow = 500

// Normalize collapses all runs of whitespace (spaces, tabs, newlines) in raw
// extracted text into single spaces and trims the ends. PDF extraction tends
// to produce hard line breaks mid-sentence; normalizing first means the
// chunker sees a clean word stream.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Chunker splits normalized text into fixed-size, non-overlapping word
// windows.
type Chunker struct {
	// Window is the number of words per chunk. Zero or negative selects
	// DefaultChunkWindow.
	Window int
}

// Split divides text into consecutive windows of at most c.Window words.
// The final window holds the remainder and may be shorter. Empty or
// whitespace-only input yields no chunks.
func (c *Chunker) Split(text string) []string {
	window := c.Window
	if window <= 0 {
		window = DefaultChunkWindow
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+window-1)/window)
	for start := 0; start < len(words); start += window {
		end := start + window
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks
}
