// Package assistant answers user questions over the ingested document corpus.
// Every answer is grounded: the model only sees retrieved chunks, and every
// failure path degrades to a safe, localized message rather than an error.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ShrillShrestha/Machuni/internal/rag"
)

// Outcome records how a question was resolved. It drives metrics and the
// answer log but is never exposed to the end user directly.
type Outcome string

const (
	// OutcomeAnswered means the model produced a grounded answer.
	OutcomeAnswered Outcome = "answered"

	// OutcomeNotFound means retrieval produced no context, so a canned
	// not-found message was served.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeUnavailable means retrieval or generation failed, so a canned
	// service-unavailable message was served.
	OutcomeUnavailable Outcome = "unavailable"
)

// Assistant turns a question into a grounded answer. It never returns an
// error from Answer: degraded paths serve localized fallback text, and the
// Outcome tells the caller which path was taken.
type Assistant struct {
	chatModel model.BaseChatModel
	retriever rag.Retriever
	prompts   *PromptBuilder
	topK      int
	timeout   time.Duration
	log       *slog.Logger
}

// Config holds the dependencies for constructing an Assistant.
type Config struct {
	// ChatModel is the LLM backend. Required.
	ChatModel model.BaseChatModel

	// Retriever fetches grounding chunks for each question. Required.
	Retriever rag.Retriever

	// TopK is the number of chunks retrieved per question (default 5).
	TopK int

	// Format selects plain or structured answers (default plain).
	Format Format

	// Timeout bounds each model call (default 60s).
	Timeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New constructs an Assistant from cfg.
func New(cfg Config) (*Assistant, error) {
	if cfg.ChatModel == nil {
		return nil, fmt.Errorf("assistant: chat model must not be nil")
	}
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("assistant: retriever must not be nil")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.Format == "" {
		cfg.Format = FormatPlain
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Assistant{
		chatModel: cfg.ChatModel,
		retriever: cfg.Retriever,
		prompts:   NewPromptBuilder(cfg.Format),
		topK:      cfg.TopK,
		timeout:   cfg.Timeout,
		log:       cfg.Logger,
	}, nil
}

// Answer resolves a question against the corpus. language names the answer
// language ("english", "nepali", "spanish", "hindi", ...); empty defaults to
// English. The returned text is always safe to show the user.
func (a *Assistant) Answer(ctx context.Context, question, language string, f Filters) (string, Outcome) {
	chunks, err := a.retriever.Retrieve(ctx, question, a.topK)
	if err != nil {
		a.log.Error("retrieval failed",
			slog.String("error", err.Error()),
		)
		return a.fallback(language, OutcomeUnavailable), OutcomeUnavailable
	}

	// Empty retrieval means the corpus has nothing relevant. Short-circuit
	// deterministically instead of letting the model improvise over an
	// empty context.
	if len(chunks) == 0 {
		return a.fallback(language, OutcomeNotFound), OutcomeNotFound
	}

	env := a.prompts.Build(question, language, f, chunks)
	msgs := []*schema.Message{
		schema.SystemMessage(env.System),
		schema.UserMessage(env.User),
	}

	text, err := generate(ctx, a.chatModel, msgs, a.timeout)
	if err != nil {
		a.log.Error("generation failed",
			slog.String("error", err.Error()),
		)
		return a.fallback(language, OutcomeUnavailable), OutcomeUnavailable
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return a.fallback(language, OutcomeUnavailable), OutcomeUnavailable
	}

	return text, OutcomeAnswered
}

// notFoundMessages and unavailableMessages hold the canned fallback text per
// lowercase language name. English is the default for any unlisted language.
var notFoundMessages = map[string]string{
	"english": "Sorry, I could not find information about that in my documents. Please try asking in a different way.",
	"nepali":  "माफ गर्नुहोस्, मैले मेरो कागजातहरूमा यसबारे जानकारी फेला पार्न सकिनँ। कृपया आफ्नो प्रश्न फरक तरिकाले सोध्नुहोस्।",
	"spanish": "Lo siento, no encontré información sobre eso en mis documentos. Intenta reformular tu pregunta.",
	"hindi":   "क्षमा करें, मुझे अपने दस्तावेज़ों में इसके बारे में जानकारी नहीं मिली। कृपया अपना प्रश्न दोबारा पूछें।",
}

var unavailableMessages = map[string]string{
	"english": "Sorry, the answer service is temporarily unavailable. Please try again in a moment.",
	"nepali":  "माफ गर्नुहोस्, सेवा अहिले उपलब्ध छैन। कृपया केही समयपछि फेरि प्रयास गर्नुहोस्।",
	"spanish": "Lo siento, el servicio no está disponible en este momento. Inténtalo de nuevo en unos minutos.",
	"hindi":   "क्षमा करें, सेवा अभी उपलब्ध नहीं है। कृपया कुछ देर बाद पुनः प्रयास करें।",
}

// fallback returns the canned message for the outcome in the user's language,
// wrapped for the structured format when needed.
func (a *Assistant) fallback(language string, outcome Outcome) string {
	table := notFoundMessages
	if outcome == OutcomeUnavailable {
		table = unavailableMessages
	}

	msg, ok := table[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		msg = table["english"]
	}

	if a.prompts.Format() == FormatStructured {
		return "<p>" + msg + "</p>"
	}
	return msg
}
