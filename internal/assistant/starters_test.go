package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestParseStarters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "clean pipe-delimited",
			in:   "How do I open a bank account?|What is OPT?|How do I rent?",
			want: []string{"How do I open a bank account?", "What is OPT?", "How do I rent?"},
		},
		{
			name: "pipes with spaces",
			in:   " How do I open a bank account? | What is OPT? ",
			want: []string{"How do I open a bank account?", "What is OPT?"},
		},
		{
			name: "newline separated with numbering",
			in:   "1. How do I open a bank account?\n2) What is OPT?\n- How do I rent?",
			want: []string{"How do I open a bank account?", "What is OPT?", "How do I rent?"},
		},
		{
			name: "empty entries dropped",
			in:   "How do I rent?|||  |What is OPT?",
			want: []string{"How do I rent?", "What is OPT?"},
		},
		{
			name: "over-long entries dropped",
			in: "Short question?|" + strings.Repeat("x", maxStarterLength+1) + "?",
			want: []string{"Short question?"},
		},
		{
			name: "empty reply",
			in:   "  \n ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseStarters(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d starters %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("starter %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStarterQuestions_FromModel(t *testing.T) {
	t.Parallel()

	cm := &fakeChatModel{reply: "Q one?|Q two?|Q three?|Q four?|Q five?"}
	r := &fakeRetriever{chunks: sampleChunks()}
	a := newTestAssistant(t, cm, r, FormatPlain)

	got := a.StarterQuestions(context.Background(), StarterProfile{
		Status:  "f1 student",
		Country: "Nepal",
		State:   "Texas",
	})

	if len(got) != 5 {
		t.Fatalf("expected 5 starters, got %d: %v", len(got), got)
	}
	if got[0] != "Q one?" {
		t.Errorf("unexpected first starter %q", got[0])
	}

	// The retrieval query reflects the profile.
	for _, want := range []string{"f1 student", "Nepal", "Texas"} {
		if !strings.Contains(r.gotQuery, want) {
			t.Errorf("retrieval query missing %q: %q", want, r.gotQuery)
		}
	}
}

func TestStarterQuestions_DefaultsOnEmptyRetrieval(t *testing.T) {
	t.Parallel()

	cm := &fakeChatModel{reply: "should never be used"}
	a := newTestAssistant(t, cm, &fakeRetriever{}, FormatPlain)

	got := a.StarterQuestions(context.Background(), StarterProfile{Language: "english"})
	if len(got) != starterCount {
		t.Fatalf("expected %d default starters, got %d", starterCount, len(got))
	}
	if got[0] != defaultStarterSets["english"][0] {
		t.Errorf("expected built-in defaults, got %v", got)
	}
	if cm.gotMsgs != nil {
		t.Error("model must not be called when retrieval is empty")
	}
}

func TestStarterQuestions_DefaultsOnModelFailure(t *testing.T) {
	t.Parallel()

	cm := &fakeChatModel{err: fmt.Errorf("model down")}
	a := newTestAssistant(t, cm, &fakeRetriever{chunks: sampleChunks()}, FormatPlain)

	got := a.StarterQuestions(context.Background(), StarterProfile{Language: "nepali"})
	if len(got) != starterCount {
		t.Fatalf("expected %d default starters, got %d", starterCount, len(got))
	}
	if got[0] != defaultStarterSets["nepali"][0] {
		t.Errorf("expected nepali defaults, got %v", got)
	}
}

func TestStarterQuestions_LengthBound(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("y", maxStarterLength+10)
	cm := &fakeChatModel{reply: "Good question?|" + long}
	a := newTestAssistant(t, cm, &fakeRetriever{chunks: sampleChunks()}, FormatPlain)

	got := a.StarterQuestions(context.Background(), StarterProfile{})
	for _, q := range got {
		if len([]rune(q)) > maxStarterLength {
			t.Errorf("starter exceeds %d characters: %q", maxStarterLength, q)
		}
	}
}
