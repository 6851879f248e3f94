package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ShrillShrestha/Machuni/internal/assistant"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response. It must
	// cover a full retrieval-plus-generation round trip.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// Registry is the Prometheus registry metrics are registered into and
	// served from at GET /metrics. If nil, a fresh registry is created.
	Registry *prometheus.Registry
	// Recorder receives one record per answered question. If nil, answer
	// logging is disabled.
	Recorder AnswerRecorder
}

// answerer is the interface handleChat and handleStarters call into.
// *assistant.Assistant satisfies it; tests inject a fake.
type answerer interface {
	// Answer resolves a question and reports how it was resolved.
	Answer(ctx context.Context, question, language string, f assistant.Filters) (string, assistant.Outcome)
	// StarterQuestions generates personalized starter questions.
	StarterQuestions(ctx context.Context, p assistant.StarterProfile) []string
}

// AnswerRecorder persists one record per question/answer exchange.
// *store.SQLiteStore satisfies it.
type AnswerRecorder interface {
	LogAnswer(ctx context.Context, question, language, outcome string, duration time.Duration) error
}

// Server is the HTTP server that exposes the assistant.
type Server struct {
	// assistant handles all question and starter requests.
	assistant answerer
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the Prometheus instruments for this server instance.
	metrics *serverMetrics
	// recorder receives answer-log records; nil disables logging.
	recorder AnswerRecorder
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// chatRequest is the JSON body for POST /api/chat.
type chatRequest struct {
	// Question is the user's natural language question.
	Question string `json:"question"`
	// Language names the answer language (e.g. "english", "nepali").
	Language string `json:"language,omitempty"`
	// Status is the user's immigration status, used to personalize the answer.
	Status string `json:"status,omitempty"`
	// Country is the user's country of origin.
	Country string `json:"country,omitempty"`
	// State is the US state the user lives in.
	State string `json:"state,omitempty"`
	// Interests lists topics the user cares about.
	Interests []string `json:"interests,omitempty"`
}

// chatResponse is the JSON response for POST /api/chat.
type chatResponse struct {
	// Answer is the grounded answer or a localized fallback message.
	Answer string `json:"answer"`
}

// startersRequest is the JSON body for POST /api/starters.
type startersRequest struct {
	// Status is the user's immigration status.
	Status string `json:"status,omitempty"`
	// Country is the user's country of origin.
	Country string `json:"country,omitempty"`
	// State is the US state the user lives in.
	State string `json:"state,omitempty"`
	// Language names the language the questions should be written in.
	Language string `json:"language,omitempty"`
}

// startersResponse is the JSON response for POST /api/starters.
type startersResponse struct {
	// Questions is the list of suggested starter questions.
	Questions []string `json:"questions"`
}
