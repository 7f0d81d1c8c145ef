package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"satmon/internal/config"
)

type fakeConn struct{ connected bool }

func (f fakeConn) IsConnected() bool { return f.connected }

func newTestServer(t *testing.T, mqtt ConnectionState, reg *prometheus.Registry) *httptest.Server {
	t.Helper()

	var gatherer prometheus.Gatherer
	if reg != nil {
		gatherer = reg
	}
	srv := NewServer(config.Config{HTTPAddr: ":0"}, NewMux(mqtt, gatherer), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(ts.Close)
	return ts
}

func mustGetJSON[T any](t *testing.T, client *http.Client, url string, out *T) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		mqtt     ConnectionState
		wantMQTT string
	}{
		{"mqtt disabled", nil, "disabled"},
		{"mqtt connected", fakeConn{connected: true}, "connected"},
		{"mqtt down", fakeConn{connected: false}, "disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.mqtt, prometheus.NewRegistry())

			var body map[string]string
			resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
			}
			if body["status"] != "ok" {
				t.Fatalf("body.status=%q want=%q", body["status"], "ok")
			}
			if body["mqtt"] != tt.wantMQTT {
				t.Fatalf("body.mqtt=%q want=%q", body["mqtt"], tt.wantMQTT)
			}
		})
	}
}

func TestHealthz_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil, prometheus.NewRegistry())

	resp, err := ts.Client().Post(ts.URL+"/healthz", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "satmon_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	ts := newTestServer(t, nil, reg)
	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "satmon_test_total 1") {
		t.Fatalf("metrics body missing counter:\n%s", body)
	}
}

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func TestRequestLogger(t *testing.T) {
	h := &captureHandler{}
	handler := requestLogger(slog.New(h), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/satellite", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusTeapot)
	}
	if len(h.records) != 1 {
		t.Fatalf("records = %d; want 1", len(h.records))
	}
	r := h.records[0]
	if r.Level != slog.LevelInfo || r.Message != "http request" {
		t.Errorf("record = %v %q", r.Level, r.Message)
	}
	attrs := map[string]slog.Value{}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	if attrs["status"].Int64() != http.StatusTeapot {
		t.Errorf("status attr = %v; want %d", attrs["status"], http.StatusTeapot)
	}
	if attrs["path"].String() != "/api/v1/satellite" || attrs["method"].String() != http.MethodGet {
		t.Errorf("attrs = %v", attrs)
	}
}

func TestRequestLogger_ProbesAtDebug(t *testing.T) {
	h := &captureHandler{}
	handler := requestLogger(slog.New(h), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if len(h.records) != 1 || h.records[0].Level != slog.LevelDebug {
		t.Fatalf("records = %v; want one debug record", h.records)
	}
}
