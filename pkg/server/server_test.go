package server

import (
	"bytes"
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

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/config"
	"github.com/matzehuels/stacklayout/pkg/document"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(cfg, fc, nil, logger), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

const treeJSON = `{"edges": [["root", "a"], ["root", "b"], ["a", "c"]]}`

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[healthResponse](t, resp); got.Status != "ok" || got.Build.Version == "" {
		t.Errorf("body = %+v", got)
	}
}

func TestLayoutLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := do(t, http.MethodPost, ts.URL+"/v1/layout", "application/json", treeJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q", got)
	}
	created := decode[document.Layout](t, resp)
	if created.ID == "" || len(created.Vertices) != 4 || len(created.Edges) != 3 {
		t.Fatalf("created = %+v", created)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/layout/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/layout/"+created.ID, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d", resp.StatusCode)
	}
	fetched := decode[document.Layout](t, resp)
	if fetched.ID != created.ID || fetched.Vertices[0] != created.Vertices[0] {
		t.Errorf("fetched = %+v", fetched)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/layout", "application/json", treeJSON)
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q", got)
	}
	again := decode[document.Layout](t, resp)
	if again.ID == created.ID {
		t.Error("each POST should store a new layout")
	}
}

func TestLayoutOptions(t *testing.T) {
	ts := newTestServer(t, nil)

	yamlBody := "edges:\n  - [root, a]\n  - [root, b]\n"
	resp := do(t, http.MethodPost, ts.URL+"/v1/layout?algorithm=buchheim&curved=true", "application/yaml", yamlBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	doc := decode[document.Layout](t, resp)
	if doc.Algorithm != "buchheim" || doc.Edges[0].Shape != "MQ" {
		t.Errorf("doc = %+v", doc)
	}

	// Reuse the first layout as the prior of a larger graph.
	resp = do(t, http.MethodPost, ts.URL+"/v1/layout?algorithm=random&prior="+doc.ID, "application/toml",
		`edges = [["root", "a"], ["root", "b"], ["b", "c"]]`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("prior status = %d", resp.StatusCode)
	}
	next := decode[document.Layout](t, resp)
	prior := map[string]document.Vertex{}
	for _, v := range doc.Vertices {
		prior[v.ID] = v
	}
	for _, v := range next.Vertices {
		if p, ok := prior[v.ID]; ok && (p.X != v.X || p.Y != v.Y) {
			t.Errorf("vertex %s moved from prior position", v.ID)
		}
	}
}

func TestErrors(t *testing.T) {
	small := config.Default()
	small.Server.MaxBodyBytes = 32
	tests := []struct {
		name        string
		cfg         *config.Config
		method      string
		path        string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"malformed json", nil, http.MethodPost, "/v1/layout", "", `{"edges": [`, 400, "INVALID_FORMAT"},
		{"invalid document", nil, http.MethodPost, "/v1/layout", "", `{"edges": [["a"]]}`, 400, "INVALID_INPUT"},
		{"not a tree", nil, http.MethodPost, "/v1/layout?algorithm=buchheim", "", `{"edges": [["a","b"],["b","a"]]}`, 422, "NOT_A_TREE"},
		{"unknown algorithm", nil, http.MethodPost, "/v1/layout?algorithm=spectral", "", treeJSON, 400, "INVALID_CONFIG"},
		{"bad seed", nil, http.MethodPost, "/v1/layout?seed=abc", "", treeJSON, 400, "INVALID_INPUT"},
		{"bad curvature", nil, http.MethodPost, "/v1/layout?curvature=NaN", "", treeJSON, 400, "INVALID_INPUT"},
		{"unsupported media", nil, http.MethodPost, "/v1/layout", "text/csv", "a,b", 415, "UNSUPPORTED"},
		{"unknown prior", nil, http.MethodPost, "/v1/layout?prior=00000000-0000-0000-0000-000000000000", "", treeJSON, 404, "NOT_FOUND"},
		{"body too large", small, http.MethodPost, "/v1/layout", "", treeJSON, 413, "REQUEST_TOO_LARGE"},
		{"missing layout", nil, http.MethodGet, "/v1/layout/00000000-0000-0000-0000-000000000000", "", "", 404, "NOT_FOUND"},
		{"malformed id", nil, http.MethodGet, "/v1/layout/nope", "", "", 400, "INVALID_INPUT"},
		{"bad region", nil, http.MethodPost, "/v1/region", "", `{"parent": [0, 100, 0, 100], "corner": {"position": "middle", "width": 10, "height": 10}}`, 400, "INVALID_REGION"},
		{"region unknown field", nil, http.MethodPost, "/v1/region", "", `{"parent": [0, 1, 0, 1], "size": 3}`, 400, "INVALID_FORMAT"},
		{"unknown route", nil, http.MethodGet, "/v2/layout", "", "", 404, "NOT_FOUND"},
		{"wrong method", nil, http.MethodDelete, "/v1/region", "", "", 405, "METHOD_NOT_ALLOWED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.cfg)
			resp := do(t, tt.method, ts.URL+tt.path, tt.contentType, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decode[errorBody](t, resp); got.Code != tt.code {
				t.Errorf("code = %q (%s), want %q", got.Code, got.Message, tt.code)
			}
		})
	}
}

func TestRegion(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		name string
		body string
		want rectResponse
	}{
		{
			"bounds",
			`{"parent": [0, 100, 0, 200], "bounds": [10, -10, "10%", -20]}`,
			rectResponse{XMin: 10, XMax: 90, YMin: 20, YMax: 180, Width: 80, Height: 160},
		},
		{
			"default gutter",
			`{"parent": [0, 400, 0, 300]}`,
			rectResponse{XMin: 40, XMax: 360, YMin: 40, YMax: 260, Width: 320, Height: 220},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/region", "application/json", tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := decode[rectResponse](t, resp); got != tt.want {
				t.Errorf("rect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type recordingHTTPHooks struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.status = append(h.status, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t, nil)
	do(t, http.MethodGet, ts.URL+"/v1/layout/00000000-0000-0000-0000-000000000000", "", "")
	do(t, http.MethodGet, ts.URL+"/healthz", "", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 2 {
		t.Fatalf("routes = %v", hooks.routes)
	}
	if hooks.routes[0] != "/v1/layout/{id}" || hooks.status[0] != http.StatusNotFound {
		t.Errorf("first = %s %d", hooks.routes[0], hooks.status[0])
	}
	if hooks.routes[1] != "/healthz" || hooks.status[1] != http.StatusOK {
		t.Errorf("second = %s %d", hooks.routes[1], hooks.status[1])
	}
}

func TestListenAndServeShutsDown(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{})
	srv := New(pipeline.NewRunner(nil, nil, nil, logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	if !strings.Contains(buf.String(), "shutting down") {
		t.Errorf("log = %q", buf.String())
	}
}
