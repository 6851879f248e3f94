package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// maxStarterLength caps each starter question so it fits on a suggestion
// chip in the UI without truncation.
const maxStarterLength = 70

// starterCount is how many questions the model is asked to produce.
const starterCount = 5

// StarterProfile describes the user a set of starter questions is
// personalized for.
type StarterProfile struct {
	// Status is the user's immigration status (e.g. "f1 student").
	Status string
	// Country is the user's country of origin.
	Country string
	// State is the US state the user lives in.
	State string
	// Language names the language the questions should be written in.
	Language string
}

// starterSystem asks for a strict pipe-delimited list so parsing stays
// trivial. Models still drift (numbering, newlines, extra chatter), which is
// why parseStarters is defensive.
const starterSystem = `You are Machuni, an assistant that helps Nepali-speaking immigrants and students navigate life in the United States.

Using only the information in the context section below, write exactly %d short starter questions this user is likely to ask. Each question must be at most %d characters. Write the questions in %s.

Return the questions on a single line separated by the pipe character, with no numbering and no other text.

Context:
%s`

// StarterQuestions generates personalized starter questions for the profile.
// It never fails: when retrieval or generation comes up empty, a built-in
// default set in the profile's language is returned instead.
func (a *Assistant) StarterQuestions(ctx context.Context, p StarterProfile) []string {
	query := starterQuery(p)

	chunks, err := a.retriever.Retrieve(ctx, query, a.topK)
	if err != nil || len(chunks) == 0 {
		if err != nil {
			a.log.Error("starter retrieval failed", slog.String("error", err.Error()))
		}
		return defaultStarters(p.Language)
	}

	language := p.Language
	if language == "" {
		language = "english"
	}

	system := fmt.Sprintf(starterSystem,
		starterCount, maxStarterLength, titleCase(language), renderContext(chunks))

	msgs := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(query),
	}

	text, err := generate(ctx, a.chatModel, msgs, a.timeout)
	if err != nil {
		a.log.Error("starter generation failed", slog.String("error", err.Error()))
		return defaultStarters(p.Language)
	}

	starters := parseStarters(text)
	if len(starters) == 0 {
		return defaultStarters(p.Language)
	}
	return starters
}

// starterQuery builds the retrieval query that surfaces the corpus material
// most relevant to this user's situation.
func starterQuery(p StarterProfile) string {
	status := p.Status
	if status == "" {
		status = "newcomer"
	}
	country := p.Country
	if country == "" {
		country = "Nepal"
	}
	state := p.State
	if state == "" {
		state = "the United States"
	}
	return fmt.Sprintf("Common questions and important information for a %s from %s living in %s", status, country, state)
}

// parseStarters extracts clean questions from the model's reply. It splits on
// pipes and newlines, strips leading numbering and bullets, and drops empty
// or over-long entries. At most starterCount*2 entries are kept so a
// runaway reply cannot flood the UI.
func parseStarters(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '|' || r == '\n'
	})

	starters := make([]string, 0, starterCount)
	for _, f := range fields {
		q := strings.TrimSpace(f)
		q = strings.TrimLeft(q, "0123456789.)- ")
		q = strings.TrimSpace(q)
		if q == "" || len([]rune(q)) > maxStarterLength {
			continue
		}
		starters = append(starters, q)
		if len(starters) == starterCount*2 {
			break
		}
	}

	return starters
}

// defaultStarterSets holds the built-in fallback questions per lowercase
// language name. English is the default for any unlisted language.
var defaultStarterSets = map[string][]string{
	"english": {
		"How do I apply for a Social Security number?",
		"What documents do I need to open a bank account?",
		"How do I get a driver license in my state?",
		"What health insurance options are available to me?",
		"How do I find an apartment to rent?",
	},
	"nepali": {
		"सामाजिक सुरक्षा नम्बरको लागि कसरी आवेदन दिने?",
		"बैंक खाता खोल्न कुन कागजातहरू चाहिन्छ?",
		"मेरो राज्यमा ड्राइभिङ लाइसेन्स कसरी लिने?",
		"मेरो लागि कुन स्वास्थ्य बीमा विकल्पहरू छन्?",
		"भाडामा अपार्टमेन्ट कसरी खोज्ने?",
	},
}

// defaultStarters returns the built-in question set for the language.
func defaultStarters(language string) []string {
	if set, ok := defaultStarterSets[strings.ToLower(strings.TrimSpace(language))]; ok {
		return append([]string(nil), set...)
	}
	return append([]string(nil), defaultStarterSets["english"]...)
}
