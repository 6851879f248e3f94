package ingestion

import "testing"

// The lingua models are loaded lazily per language, so constructing the
// detector once for the whole file keeps these tests fast.
var testDetector = NewLinguaDetector()

func TestLinguaDetector_Empty(t *testing.T) {
	t.Parallel()

	if got := testDetector.Detect(""); got != LanguageUnknown {
		t.Errorf("Detect(\"\") = %q, want %q", got, LanguageUnknown)
	}
	if got := testDetector.Detect("  \n\t "); got != LanguageUnknown {
		t.Errorf("whitespace input = %q, want %q", got, LanguageUnknown)
	}
}

func TestLinguaDetector_English(t *testing.T) {
	t.Parallel()

	text := "To apply for a driver license you must visit the department of motor vehicles and bring proof of identity and residency."
	if got := testDetector.Detect(text); got != "en" {
		t.Errorf("Detect(english) = %q, want \"en\"", got)
	}
}

func TestLinguaDetector_Nepali(t *testing.T) {
	t.Parallel()

	text := "तपाईंले आफ्नो कागजातहरू कार्यालयमा बुझाउनु पर्नेछ र त्यसपछि अनुमतिपत्रको लागि आवेदन दिन सक्नुहुन्छ।"
	got := testDetector.Detect(text)
	// Devanagari script narrows the candidates; accept Nepali or the close
	// statistical neighbors lingua sometimes prefers for short passages.
	if got != "ne" && got != "hi" && got != "mr" {
		t.Errorf("Detect(nepali) = %q, want a Devanagari-script language", got)
	}
}

func TestLinguaDetector_Lowercase(t *testing.T) {
	t.Parallel()

	got := testDetector.Detect("The quick brown fox jumps over the lazy dog near the river bank every single morning.")
	for _, r := range got {
		if r >= 'A' && r <= 'Z' {
			t.Errorf("Detect returned non-lowercase code %q", got)
		}
	}
}
