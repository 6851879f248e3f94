package ingestion

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageUnknown is assigned when detection fails or the text carries no
// usable signal. It is a first-class value — queries and payload filters must
// treat it like any other language tag.
const LanguageUnknown = "unknown"

// LanguageDetector identifies the language of a piece of text.
type LanguageDetector interface {
	// Detect returns a lowercase ISO 639-1 code (e.g. "en", "ne"), or
	// LanguageUnknown when the language cannot be determined.
	Detect(text string) string
}

// LinguaDetector implements LanguageDetector using statistical n-gram models
// across all supported languages. Construction is expensive (the models are
// loaded once); reuse a single instance for a whole ingestion run.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over every language lingua supports.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code for text, or LanguageUnknown
// for empty input or when no language reaches the confidence threshold.
func (d *LinguaDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return LanguageUnknown
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return LanguageUnknown
	}

	return strings.ToLower(lang.IsoCode639_1().String())
}
