package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ShrillShrestha/Machuni/internal/assistant"
)

func Test_Metrics_EndpointReturns200(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("want text/plain content-type, got %q", ct)
	}
}

// counterValue gathers reg and returns the value of the named counter with
// the given label pair, or -1 if absent.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func Test_Metrics_ChatOutcomeCounted(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	fake := &fakeAnswerer{answer: "fallback", outcome: assistant.OutcomeNotFound}
	s := newTestServer(t, fake, func(cfg *Config) { cfg.Registry = reg })

	w := postJSON(t, s.Handler(), "/api/chat", `{"question":"q"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if got := counterValue(t, reg, "machuni_chat_requests_total", "outcome", "not_found"); got != 1 {
		t.Errorf("machuni_chat_requests_total{outcome=\"not_found\"} = %v, want 1", got)
	}
}

func Test_Metrics_HTTPRequestsCounted(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	s := newTestServer(t, &fakeAnswerer{}, func(cfg *Config) { cfg.Registry = reg })

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := counterValue(t, reg, "machuni_http_requests_total", "handler", "health"); got != 1 {
		t.Errorf("machuni_http_requests_total{handler=\"health\"} = %v, want 1", got)
	}
}
