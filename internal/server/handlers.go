package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/tangle/pkg/buildinfo"
	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/graph"
	"github.com/matzehuels/tangle/pkg/pipeline"
	"github.com/matzehuels/tangle/pkg/render"
)

// Response headers describing the result.
const (
	cacheHeader   = "X-Tangle-Cache"
	docHashHeader = "X-Tangle-Document-Hash"
)

var contentTypes = map[string]string{
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG: "image/svg+xml",
	render.FormatPDF: "application/pdf",
	render.FormatPNG: "image/png",
}

// handleHealth returns a JSON health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleLayout lays out the posted document and returns the payload.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Layout(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(cacheHeader, cacheStatus(res.CacheHit))
	w.Header().Set(docHashHeader, res.DocHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Payload)
}

// handleDOT renders the bundle graph of the posted document.
func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		opts.Format = f
	}
	if d := q.Get("detailed"); d != "" {
		if opts.Detailed, err = strconv.ParseBool(d); err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "detailed: %q is not a boolean", d))
			return
		}
	}

	art, err := s.runner.DOT(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[art.Format])
	w.Header().Set(cacheHeader, cacheStatus(art.CacheHit))
	w.Header().Set(docHashHeader, art.DocHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// readDocument decodes the request body according to its Content-Type.
// The body is capped at MaxBodyBytes.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (graph.Document, error) {
	format, err := documentFormat(r.Header.Get("Content-Type"))
	if err != nil {
		return graph.Document{}, err
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	return graph.ReadDocument(r.Body, format)
}

// requestOptions copies the server defaults and applies ?refresh.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Options
	opts.Logger = loggerFrom(r.Context(), s.logger)
	if v := r.URL.Query().Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh: %q is not a boolean", v)
		}
		opts.Refresh = refresh
	}
	return opts, nil
}

// errUnsupportedMedia marks a request body type no decoder handles.
var errUnsupportedMedia = stderrors.New("unsupported media type")

func documentFormat(contentType string) (string, error) {
	if contentType == "" {
		return graph.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, errUnsupportedMedia, "content type %q", contentType)
	}
	switch mediaType {
	case "application/json", "text/json":
		return graph.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return graph.FormatYAML, nil
	case "application/toml":
		return graph.FormatTOML, nil
	}
	return "", errors.Wrap(errors.ErrCodeInvalidFormat, errUnsupportedMedia, "content type %q", mediaType)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
