package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ShrillShrestha/Machuni/internal/assistant"
	"github.com/ShrillShrestha/Machuni/internal/logging"
)

// maxQuestionLength bounds the question body so a hostile client cannot feed
// arbitrarily large prompts into the model.
const maxQuestionLength = 2000

// handleChat handles POST /api/chat. The response is always 200 with a JSON
// answer for any well-formed request — degraded outcomes surface as localized
// fallback text, not HTTP errors.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(req.Question) > maxQuestionLength {
		writeError(w, http.StatusBadRequest, "question is too long")
		return
	}

	filters := assistant.Filters{
		Status:    req.Status,
		Country:   req.Country,
		State:     req.State,
		Interests: req.Interests,
	}

	start := time.Now()
	answer, outcome := s.assistant.Answer(r.Context(), req.Question, req.Language, filters)
	elapsed := time.Since(start)

	s.metrics.chatRequestsTotal.WithLabelValues(string(outcome)).Inc()
	s.metrics.chatDurationSeconds.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())

	// The answer log is best-effort; a write failure must never cost the user
	// their answer.
	if s.recorder != nil {
		if err := s.recorder.LogAnswer(r.Context(), req.Question, req.Language, string(outcome), elapsed); err != nil {
			log.Warn("answer log write failed", slog.Any("error", err))
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

// handleStarters handles POST /api/starters.
func (s *Server) handleStarters(w http.ResponseWriter, r *http.Request) {
	var req startersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	questions := s.assistant.StarterQuestions(r.Context(), assistant.StarterProfile{
		Status:   req.Status,
		Country:  req.Country,
		State:    req.State,
		Language: req.Language,
	})

	writeJSON(w, http.StatusOK, startersResponse{Questions: questions})
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
