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

	apperr "github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/observability"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
)

const scene = `{
  "nodes": [
    {"id": "xyz", "kind": "combine_xyz", "inputs": {"Z": 0.6}},
    {"id": "x", "kind": "value", "inputs": {"Value": 0.2}},
    {"id": "y", "kind": "value", "inputs": {"Value": 0.4}}
  ],
  "links": [
    {"from": "x.Value", "to": "xyz.X"},
    {"from": "y.Value", "to": "xyz.Y"},
    {"from": "xyz.Vector", "to": "output.Color"}
  ]
}`

// memCache is a minimal concurrent-safe in-memory cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(context.Context, string) error { return nil }
func (c *memCache) Close() error                         { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(&memCache{data: map[string][]byte{}}, nil, logger)
	srv := httptest.NewServer(New(Config{Runner: runner, Logger: logger}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestNodes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		query string
		want  int
	}{
		{"", len(nodes.Builtin().Kinds())},
		{"?class=transform", 4},
		{"?class=teapot", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/v1/nodes" + tt.query)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			defer resp.Body.Close()

			var catalog []nodes.Info
			if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(catalog) != tt.want {
				t.Errorf("len(catalog) = %d, want %d", len(catalog), tt.want)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	srv := newTestServer(t)

	var first, second pipeline.Result
	for i, dst := range []*pipeline.Result{&first, &second} {
		resp := post(t, srv.URL+"/v1/compile", scene)
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			t.Fatalf("request %d: status = %d: %s", i, resp.StatusCode, b)
		}
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}

	if !strings.Contains(first.Source, "vec3 n0001o0000 = vec3(n0002o0000, n0003o0000, 0.60);") {
		t.Errorf("unexpected source:\n%s", first.Source)
	}
	if first.Cached || !second.Cached {
		t.Errorf("cached = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if first.Source != second.Source {
		t.Error("cached source differs")
	}
}

func TestCompileErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		code apperr.Code
	}{
		{"malformed", `{"nodes": [`, apperr.ErrCodeInvalidDocument},
		{"unknown field", `{"edges": []}`, apperr.ErrCodeInvalidDocument},
		{"unknown kind", `{"nodes": [{"id": "t", "kind": "teapot"}]}`, apperr.ErrCodeInvalidDocument},
		{
			"cycle",
			`{"nodes": [{"id": "a", "kind": "scalar_bin_op"}, {"id": "b", "kind": "scalar_bin_op"}],
			  "links": [{"from": "a.Result", "to": "b.0"}, {"from": "b.Result", "to": "a.0"}]}`,
			apperr.ErrCodeCycle,
		},
		{
			"unknown socket",
			`{"nodes": [{"id": "a", "kind": "value"}], "links": [{"from": "a.Nope", "to": "output.Color"}]}`,
			apperr.ErrCodeSocketNotFound,
		},
		{
			"conversion",
			`{"nodes": [{"id": "c", "kind": "coordinates"}], "links": [{"from": "c.Coordinates", "to": "output.Color"}]}`,
			apperr.ErrCodeConversion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/compile", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func TestGraph(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/v1/graph?format=dot&detailed=true", scene)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "xyz (combine_xyz)") {
		t.Errorf("diagram missing alias label:\n%s", b)
	}

	bad := post(t, srv.URL+"/v1/graph?format=png", scene)
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("format=png status = %d, want 400", bad.StatusCode)
	}
	bad = post(t, srv.URL+"/v1/graph?detailed=maybe", scene)
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("detailed=maybe status = %d, want 400", bad.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/compile")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

type httpRecorder struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *httpRecorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	defer observability.Reset()

	srv := newTestServer(t)
	post(t, srv.URL+"/v1/compile", scene)
	post(t, srv.URL+"/v1/compile", `{"nodes": [`)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.statuses) != 2 || rec.statuses[0] != 200 || rec.statuses[1] != 400 {
		t.Errorf("statuses = %v, want [200 400]", rec.statuses)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperr.Code
		want int
	}{
		{"", 500},
		{apperr.ErrCodeInternal, 500},
		{apperr.ErrCodeUnsupported, 501},
		{apperr.ErrCodeCycle, 400},
		{apperr.ErrCodeInvalidFormat, 400},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
