package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clipperviz/clipper/pkg/buildinfo"
	"github.com/clipperviz/clipper/pkg/errors"
	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/style"
)

// Response headers set by the render endpoint.
const (
	HeaderFingerprint = "X-Clipper-Fingerprint"
	HeaderCache       = "X-Clipper-Cache"
)

// maxRenderBody caps the render request body. Descriptions are small; the
// limit exists to reject accidental uploads of the wrong file.
const maxRenderBody = 8 << 20

// renderRequest is the body of POST /api/v1/render.
type renderRequest struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges,omitempty"`
	Style style.Style  `json:"style,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRenderBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read render request"))
		return
	}

	var req renderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode render request"))
		return
	}

	g, err := graph.BuildDescription(graph.Description{Nodes: req.Nodes, Edges: req.Edges})
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph description"))
		return
	}

	art, stats, err := s.pipe.RenderWithStats(r.Context(), g, req.Style)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set(HeaderFingerprint, art.Fingerprint)
	w.Header().Set(HeaderCache, cacheState(stats.CacheHit))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		s.log.Warn("write artifact", "id", RequestID(r.Context()), "err", err)
	}
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	fp := chi.URLParam(r, "fingerprint")
	if !validFingerprint(fp) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "malformed fingerprint %q", fp))
		return
	}

	if err := s.pipe.Invalidate(r.Context(), fp); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","version":%q}`+"\n", buildinfo.Version)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	} else {
		s.log.Debug("request rejected", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{Error: errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("encode error response", "err", err)
	}
}

func cacheState(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// validFingerprint reports whether fp looks like a sha-256 hex digest.
func validFingerprint(fp string) bool {
	if len(fp) != 64 {
		return false
	}
	for _, c := range fp {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
