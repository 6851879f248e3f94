package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ShrillShrestha/Machuni/internal/assistant"
)

func TestAuth_DisabledWhenNoKey(t *testing.T) {
	t.Parallel()

	fake := &fakeAnswerer{answer: "a", outcome: assistant.OutcomeAnswered}
	s := newTestServer(t, fake, nil)

	w := postJSON(t, s.Handler(), "/api/chat", `{"question":"q"}`)
	if w.Code != http.StatusOK {
		t.Errorf("auth should be disabled without a key, got %d", w.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAnswerer{}, func(cfg *Config) { cfg.APIKey = "secret" })

	w := postJSON(t, s.Handler(), "/api/chat", `{"question":"q"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); !strings.Contains(got, `realm="machuni"`) {
		t.Errorf("expected bearer challenge, got %q", got)
	}
}

func TestAuth_WrongToken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAnswerer{}, func(cfg *Config) { cfg.APIKey = "secret" })

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"q"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	fake := &fakeAnswerer{answer: "a", outcome: assistant.OutcomeAnswered}
	s := newTestServer(t, fake, func(cfg *Config) { cfg.APIKey = "secret" })

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"q"}`))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", w.Code)
	}
}

// TestAuth_HealthStaysOpen verifies probes never need credentials.
func TestAuth_HealthStaysOpen(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAnswerer{}, func(cfg *Config) { cfg.APIKey = "secret" })

	for _, path := range []string{"/api/health", "/api/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code == http.StatusUnauthorized {
			t.Errorf("%s should not require auth", path)
		}
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := bearerToken(req); got != tt.want {
			t.Errorf("header %q: got %q, want %q", tt.header, got, tt.want)
		}
	}
}
