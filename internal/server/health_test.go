package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakePinger reports a fixed readiness result.
type fakePinger struct {
	name string
	err  error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }
func (f *fakePinger) Name() string               { return f.name }

func getReady(t *testing.T, s *Server) (*httptest.ResponseRecorder, readyResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var resp readyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode ready response: %v", err)
	}
	return w, resp
}

func TestHandleReady_NoPingers(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAnswerer{}, nil)
	w, resp := getReady(t, s)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !resp.Ready {
		t.Error("expected ready=true with no pingers")
	}
}

func TestHandleReady_AllHealthy(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAnswerer{}, func(cfg *Config) {
		cfg.Pingers = []Pinger{
			&fakePinger{name: "qdrant"},
			&fakePinger{name: "ollama"},
		}
	})
	w, resp := getReady(t, s)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !resp.Ready || len(resp.Checks) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleReady_DependencyDown(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAnswerer{}, func(cfg *Config) {
		cfg.Pingers = []Pinger{
			&fakePinger{name: "qdrant"},
			&fakePinger{name: "ollama", err: fmt.Errorf("connection refused")},
		}
	})
	w, resp := getReady(t, s)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
	if resp.Ready {
		t.Error("expected ready=false")
	}

	var found bool
	for _, c := range resp.Checks {
		if c.Name == "ollama" {
			found = true
			if c.OK || c.Error == "" {
				t.Errorf("expected failing check with error, got %+v", c)
			}
		}
	}
	if !found {
		t.Error("ollama check missing from response")
	}
}

func TestMultiPinger(t *testing.T) {
	t.Parallel()

	m := NewMultiPinger(
		&fakePinger{name: "a"},
		&fakePinger{name: "b", err: fmt.Errorf("down")},
	)
	err := m.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error from failing pinger")
	}
	if got := err.Error(); got != "b: down" {
		t.Errorf("expected error to name the failing dependency, got %q", got)
	}

	healthy := NewMultiPinger(&fakePinger{name: "a"})
	if err := healthy.Ping(context.Background()); err != nil {
		t.Errorf("expected nil from healthy pingers, got %v", err)
	}
}
