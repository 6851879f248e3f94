package assistant

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/ShrillShrestha/Machuni/internal/rag"
)

// Format selects how the model is asked to shape its answer.
type Format string

const (
	// FormatPlain requests plain text with no markup of any kind. This is
	// the right mode for SMS, CLI, and voice front ends.
	FormatPlain Format = "plain"

	// FormatStructured requests a small HTML fragment limited to a short
	// whitelist of tags, for rendering directly in a web page.
	FormatStructured Format = "structured"
)

// ParseFormat converts a config string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPlain, "":
		return FormatPlain, nil
	case FormatStructured:
		return FormatStructured, nil
	default:
		return "", fmt.Errorf("assistant: unknown answer format %q — valid values: plain, structured", s)
	}
}

// Filters carries the user-profile fields that personalize an answer. All
// fields are optional; empty fields are omitted from the prompt.
type Filters struct {
	// Status is the user's immigration status (e.g. "f1 student", "asylee").
	Status string
	// Country is the user's country of origin.
	Country string
	// State is the US state the user lives in.
	State string
	// Interests lists topics the user cares about.
	Interests []string
}

// Envelope is a fully rendered prompt, split into the system instructions and
// the user turn.
type Envelope struct {
	System string
	User   string
}

// systemTmpl is the grounded system prompt. The context section is the only
// source of truth the model is allowed to draw on. The plain variant must not
// contain angle brackets anywhere — some downstream channels treat them as
// markup and strip or mangle them.
var systemTmpl = template.Must(template.New("system").Parse(
	`You are Machuni, an assistant that helps Nepali-speaking immigrants and students navigate life in the United States.

Answer the question using only the information in the context section below. If the context does not contain the answer, say plainly that you could not find the information in your documents. Do not invent facts and do not draw on outside knowledge.

Respond in {{.Language}}.

{{.FormatRules}}

User profile:
{{.Profile}}

Context:
{{.Context}}`))

const plainRules = `Write plain text only. Do not use markup, bullet symbols, or any special formatting characters.`

const structuredRules = `Format the answer as a small HTML fragment. Use only these tags: <p>, <br>, <ul>, <ol>, <li>, <b>, <i>. Do not emit document or body level wrapper tags, scripts, styles, links, or attributes.`

// PromptBuilder renders grounded prompt envelopes in a fixed format mode.
type PromptBuilder struct {
	format Format
}

// NewPromptBuilder returns a builder for the given format mode.
func NewPromptBuilder(format Format) *PromptBuilder {
	return &PromptBuilder{format: format}
}

// Format returns the builder's format mode.
func (b *PromptBuilder) Format() Format { return b.format }

// Build renders the prompt for one question over the retrieved chunks.
// language is the answer language by name (e.g. "english", "nepali"); empty
// defaults to English.
func (b *PromptBuilder) Build(question, language string, f Filters, chunks []rag.Chunk) Envelope {
	rules := plainRules
	if b.format == FormatStructured {
		rules = structuredRules
	}

	if language == "" {
		language = "english"
	}

	data := struct {
		Language    string
		FormatRules string
		Profile     string
		Context     string
	}{
		Language:    titleCase(language),
		FormatRules: rules,
		Profile:     renderProfile(f),
		Context:     renderContext(chunks),
	}

	var sb strings.Builder
	// The template is static and the data is all strings; Execute cannot fail.
	_ = systemTmpl.Execute(&sb, data)

	return Envelope{
		System: sb.String(),
		User:   question,
	}
}

// renderProfile formats the non-empty filter fields one per line, or returns
// the literal "None" when the profile is empty.
func renderProfile(f Filters) string {
	var lines []string
	if f.Status != "" {
		lines = append(lines, "Status: "+titleCase(f.Status))
	}
	if f.Country != "" {
		lines = append(lines, "Country of origin: "+titleCase(f.Country))
	}
	if f.State != "" {
		lines = append(lines, "State: "+titleCase(f.State))
	}
	if len(f.Interests) > 0 {
		clean := make([]string, 0, len(f.Interests))
		for _, in := range f.Interests {
			if in = strings.TrimSpace(in); in != "" {
				clean = append(clean, titleCase(in))
			}
		}
		if len(clean) > 0 {
			lines = append(lines, "Interests: "+strings.Join(clean, ", "))
		}
	}
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}

// renderContext formats the retrieved chunks, each labeled with its source
// document and topic so the model can cite where an answer came from.
func renderContext(chunks []rag.Chunk) string {
	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Source: %s | Topic: %s]\n%s", c.Source, c.Topic, c.Text)
	}
	return sb.String()
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
