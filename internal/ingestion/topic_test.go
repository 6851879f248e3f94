package ingestion

import "testing"

func TestPathClassifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		// Folder-driven matches.
		{"docs/bank/chase-fees.pdf", "banking"},
		{"docs/housing/lease-basics.pdf", "housing"},
		{"docs/immigration/i20-overview.pdf", "immigration"},
		{"docs/tax/filing-2024.pdf", "taxation"},
		{"docs/drivers/permit-handbook.pdf", "driving"},
		{"docs/driving/test-routes.pdf", "driving"},
		{"docs/health/clinic-list.pdf", "health"},
		{"docs/faq/common-answers.pdf", "faq"},
		{"docs/nepali/festivals.pdf", "nepali_info"},

		// File-name-driven matches.
		{"docs/misc/open-checking-account.pdf", "banking"},
		{"docs/misc/how-to-rent.pdf", "housing"},
		{"docs/misc/apartment-search.pdf", "housing"},
		{"docs/misc/f1-visa-rules.pdf", "immigration"},
		{"docs/misc/opt-timeline.pdf", "immigration"},
		{"docs/misc/irs-w2-explained.pdf", "taxation"},
		{"docs/misc/social security numbers.pdf", "taxation"},
		{"docs/misc/dmv-appointments.pdf", "driving"},
		{"docs/misc/medical-coverage.pdf", "health"},
		{"docs/misc/insurance-options.pdf", "health"},
		{"docs/misc/frequently-asked.pdf", "faq"},
		{"docs/misc/newcomer-guide.pdf", "faq"},
		{"docs/misc/consulate-hours.pdf", "nepali_info"},
		{"docs/misc/camp-history.pdf", "nepali_info"},
		{"docs/misc/student-discounts.pdf", "student_life"},
		{"docs/misc/university-admission.pdf", "student_life"},
		{"docs/misc/asylum-process.pdf", "asylum"},
		{"docs/misc/green card renewal.pdf", "green_card"},

		// Case insensitivity.
		{"docs/Immigration/VISA-Info.pdf", "immigration"},

		// No match falls back to general.
		{"docs/misc/city-map.pdf", "general"},
		{"readme.pdf", "general"},
	}

	c := NewPathClassifier()
	for _, tt := range tests {
		if got := c.Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// TestPathClassifier_Precedence verifies first-match-wins ordering when a
// path satisfies multiple rules.
func TestPathClassifier_Precedence(t *testing.T) {
	t.Parallel()

	c := NewPathClassifier()

	// "visa" (immigration, rule 3) beats "irs" in the same name (taxation, rule 4).
	if got := c.Classify("docs/misc/visa-and-irs.pdf"); got != "immigration" {
		t.Errorf("expected immigration to win by rule order, got %q", got)
	}

	// A banking folder beats an immigration file name — banking is rule 1.
	if got := c.Classify("docs/bank/visa-debit-card.pdf"); got != "banking" {
		t.Errorf("expected banking folder rule to win, got %q", got)
	}

	// "student" in the name only matters when no earlier rule matched.
	if got := c.Classify("docs/housing/student-dorms.pdf"); got != "housing" {
		t.Errorf("expected housing folder rule to win over student file rule, got %q", got)
	}
}
