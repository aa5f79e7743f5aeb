package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartwheel/pkg/cache"
	"github.com/matzehuels/chartwheel/pkg/errors"
	"github.com/matzehuels/chartwheel/pkg/observability"
	"github.com/matzehuels/chartwheel/pkg/pipeline"
)

const natalBody = `{
  "name": "Ada",
  "template": "natal",
  "layers": [{
    "id": "natal",
    "positions": {
      "sun":  {"longitude": 25, "speed": 0.98},
      "moon": {"longitude": 145, "speed": 13.1},
      "mars": {"longitude": 5, "speed": 0.6}
    },
    "houses": {
      "cusps": {"1": 10, "2": 40, "3": 70, "4": 100, "5": 130, "6": 160,
                "7": 190, "8": 220, "9": 250, "10": 280, "11": 310, "12": 340},
      "angles": {"ascendant": 10, "midheaven": 280, "imum_coeli": 100, "descendant": 190}
    }
  }]
}`

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(c, nil, logger), logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBuildWheel(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, c)

	rec := do(t, s, http.MethodPost, "/v1/wheels", natalBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Wheel struct {
			TemplateID string `json:"template_id"`
			Name       string `json:"name"`
			Rings      []struct {
				Slug  string            `json:"slug"`
				Items []json.RawMessage `json:"items"`
			} `json:"rings"`
		} `json:"wheel"`
		AspectSets map[string]json.RawMessage `json:"aspect_sets"`
		Cache      pipeline.CacheInfo         `json:"cache"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Wheel.TemplateID != "natal" || resp.Wheel.Name != "Ada" {
		t.Errorf("wheel = %+v", resp.Wheel)
	}
	if len(resp.Wheel.Rings) != 4 {
		t.Errorf("got %d rings, want 4", len(resp.Wheel.Rings))
	}
	if _, ok := resp.AspectSets["intra:natal"]; !ok {
		t.Error("intra:natal missing")
	}
	if resp.Cache.WheelHit {
		t.Error("first request should miss")
	}

	rec = do(t, s, http.MethodPost, "/v1/wheels", natalBody)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Cache.WheelHit || !resp.Cache.AspectsHit {
		t.Errorf("second request should hit: %+v", resp.Cache)
	}
}

func TestComputeAspects(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/aspects", natalBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		AspectSets map[string]struct {
			Pairs []json.RawMessage `json:"pairs"`
		} `json:"aspect_sets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// sun and moon are an exact trine.
	if n := len(resp.AspectSets["intra:natal"].Pairs); n == 0 {
		t.Error("expected natal aspects")
	}
}

func TestErrorStatus(t *testing.T) {
	collision := strings.Replace(natalBody, `"template": "natal",`,
		`"template": "natal", "settings": {"include_angles": true, "collision": {"enabled": true, "radius": 12, "scale": 5}},`, 1)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
		hint   string
	}{
		{"malformed body", http.MethodPost, "/v1/wheels", `{`, http.StatusBadRequest, errors.ErrCodeInvalidInput, ""},
		{"unknown field", http.MethodPost, "/v1/wheels", `{"planets": {}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput, ""},
		{"no layers", http.MethodPost, "/v1/wheels", `{"layers": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput, ""},
		{"template path", http.MethodPost, "/v1/wheels", `{"template": "../secret.toml", "layers": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput, ""},
		{"unknown template", http.MethodPost, "/v1/wheels", `{"template": "nope", "layers": []}`, http.StatusNotFound, errors.ErrCodeTemplateNotFound, ""},
		{"collision", http.MethodPost, "/v1/wheels", collision, http.StatusUnprocessableEntity, errors.ErrCodeUnresolvedCollision, "decrease the symbol scale"},
		{"missing template", http.MethodGet, "/v1/templates/nope", "", http.StatusNotFound, errors.ErrCodeTemplateNotFound, ""},
		{"no route", http.MethodGet, "/v2/wheels", "", http.StatusNotFound, errors.ErrCodeNotFound, ""},
	}
	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var body apiError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
			if !strings.Contains(body.Message, tt.hint) {
				t.Errorf("message = %q, want it to mention %q", body.Message, tt.hint)
			}
		})
	}
}

func TestTemplates(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/v1/templates", "")
	var list []templateSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(list))
	for i, tpl := range list {
		ids[i] = tpl.ID
	}
	if got := strings.Join(ids, ","); got != "biwheel,natal,transit,vedic" {
		t.Errorf("templates = %s", got)
	}

	rec = do(t, s, http.MethodGet, "/v1/templates/vedic", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"layer-varga-planets"`) {
		t.Errorf("vedic template: %d %s", rec.Code, rec.Body)
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("healthz: %d %s", rec.Code, rec.Body)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	h := &recordingHooks{}
	observability.SetHTTPHooks(h)

	do(t, newTestServer(t, nil), http.MethodGet, "/v1/templates/natal", "")
	if len(h.routes) != 1 || h.routes[0] != "GET /v1/templates/{name}" {
		t.Errorf("routes = %v", h.routes)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), nil, WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
