package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clipperviz/clipper/pkg/render"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	pipe := render.New(render.NewCache(render.CacheConfig{MaxBytes: 1 << 20}), nil)
	t.Cleanup(func() { pipe.Close() })
	return New(pipe, Config{}, nil)
}

func postRender(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return resp.Error
}

const twoNodeBody = `{
	"nodes": [{"id": "a", "label": "Service A"}, {"id": "b"}],
	"edges": [{"source": "a", "target": "b", "directed": true}]
}`

func TestHandleRender(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := postRender(t, h, twoNodeBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "<svg") {
		t.Errorf("body does not start with <svg: %.40s", rr.Body.String())
	}
	fp := rr.Header().Get(HeaderFingerprint)
	if len(fp) != 64 {
		t.Errorf("fingerprint header = %q, want 64 hex chars", fp)
	}
	if state := rr.Header().Get(HeaderCache); state != "miss" {
		t.Errorf("cache header = %q, want miss", state)
	}

	// Same description again is served from cache, byte for byte.
	rr2 := postRender(t, h, twoNodeBody)
	if state := rr2.Header().Get(HeaderCache); state != "hit" {
		t.Errorf("second cache header = %q, want hit", state)
	}
	if rr2.Header().Get(HeaderFingerprint) != fp {
		t.Errorf("fingerprint changed between identical requests")
	}
	if !bytes.Equal(rr.Body.Bytes(), rr2.Body.Bytes()) {
		t.Error("cached artifact differs from first render")
	}
}

func TestHandleRenderPNG(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := postRender(t, h, `{
		"nodes": [{"id": "a"}],
		"style": {"format": "png"}
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("body is not a PNG stream")
	}
}

func TestHandleRenderEmptyGraph(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := postRender(t, h, `{}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty graph: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleRenderMalformedJSON(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := postRender(t, h, `{"nodes": [`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", e.Code)
	}
}

func TestHandleRenderInvalidGraph(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name string
		body string
	}{
		{"duplicate node", `{"nodes": [{"id": "a"}, {"id": "a"}]}`},
		{"dangling edge", `{"nodes": [{"id": "a"}], "edges": [{"source": "a", "target": "ghost"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postRender(t, h, tt.body)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422: %s", rr.Code, rr.Body.String())
			}
			if e := decodeError(t, rr); e.Code != "INVALID_GRAPH" {
				t.Errorf("error code = %q, want INVALID_GRAPH", e.Code)
			}
		})
	}
}

func TestHandleRenderUnknownEngine(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := postRender(t, h, `{"nodes": [{"id": "a"}], "style": {"engine": "quantum"}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rr.Code, rr.Body.String())
	}
	if e := decodeError(t, rr); e.Code != "INVALID_ENGINE" {
		t.Errorf("error code = %q, want INVALID_ENGINE", e.Code)
	}
}

func TestHandleRenderMethodNotAllowed(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/render", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestHandleInvalidate(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := postRender(t, h, twoNodeBody)
	fp := rr.Header().Get(HeaderFingerprint)
	if fp == "" {
		t.Fatal("no fingerprint header on render response")
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cache/"+fp, nil)
	del := httptest.NewRecorder()
	h.ServeHTTP(del, req)
	if del.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204: %s", del.Code, del.Body.String())
	}

	// The artifact is gone, so the next render is a miss again.
	rr2 := postRender(t, h, twoNodeBody)
	if state := rr2.Header().Get(HeaderCache); state != "miss" {
		t.Errorf("cache header after invalidate = %q, want miss", state)
	}
}

func TestHandleInvalidateMalformedFingerprint(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cache/not-a-digest", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", e.Code)
	}
}

func TestHandleInvalidateUnknownFingerprint(t *testing.T) {
	h := newTestServer(t).Handler()

	fp := strings.Repeat("ab", 32)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cache/"+fp, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204 for unknown fingerprint", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "# HELP") {
		t.Error("metrics body has no HELP lines")
	}
}

func TestRequestIDAssigned(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get(HeaderRequestID) == "" {
		t.Error("no request id assigned")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "caller-supplied-id")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get(HeaderRequestID); got != "caller-supplied-id" {
		t.Errorf("request id = %q, want caller-supplied-id", got)
	}
}

func TestRecoverPanics(t *testing.T) {
	s := newTestServer(t)

	wrapped := s.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != "INTERNAL_ERROR" {
		t.Errorf("error code = %q, want INTERNAL_ERROR", e.Code)
	}
}

func TestValidFingerprint(t *testing.T) {
	tests := []struct {
		name string
		fp   string
		want bool
	}{
		{"digest", strings.Repeat("0f", 32), true},
		{"too short", "abc123", false},
		{"uppercase", strings.Repeat("0F", 32), false},
		{"non hex", strings.Repeat("zz", 32), false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validFingerprint(tt.fp); got != tt.want {
				t.Errorf("validFingerprint(%q) = %v, want %v", tt.fp, got, tt.want)
			}
		})
	}
}
