package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sumnatarya/Synapse/pkg/pipeline"
	"github.com/sumnatarya/Synapse/pkg/store"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createMapRequest is the POST /api/maps payload.
type createMapRequest struct {
	Name string       `json:"name"`
	Tree tree.RawNode `json:"tree"`
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var req createMapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m, err := store.New(req.Name, req.Tree)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.Put(r.Context(), m); err != nil {
		s.logger.Error("store map", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("store map failed"))
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list maps", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("list maps failed"))
		return
	}
	if maps == nil {
		maps = []*store.Map{}
	}
	writeJSON(w, http.StatusOK, maps)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMap(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.logger.Error("delete map", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("delete map failed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMapLayout returns the computed layout for a stored map as JSON.
// Surface size comes from the width/height query parameters.
func (s *Server) handleMapLayout(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMap(w, r)
	if !ok {
		return
	}

	opts := s.renderOptions(r, &m.Tree, pipeline.FormatJSON)
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Error("layout map", "id", m.ID, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tree_hash": result.TreeHash,
		"truncated": result.Truncated,
		"layout":    result.Layout,
	})
}

// handleMapSVG renders a stored map to SVG. Query parameters: width,
// height, q (search highlight), bg (background color).
func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMap(w, r)
	if !ok {
		return
	}

	opts := s.renderOptions(r, &m.Tree, pipeline.FormatSVG)
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Error("render map", "id", m.ID, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[pipeline.FormatSVG])
}

// handleRender runs the pipeline on an inline tree document and returns
// the first requested artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if opts.Tree == nil {
		writeError(w, http.StatusBadRequest, errors.New("tree document is required"))
		return
	}
	// Server requests never read local files.
	opts.Input = ""
	opts.Logger = s.logger

	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	format := opts.Formats[0]
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

func (s *Server) loadMap(w http.ResponseWriter, r *http.Request) (*store.Map, bool) {
	id := chi.URLParam(r, "id")
	m, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		s.logger.Error("load map", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("load map failed"))
		return nil, false
	}
	return m, true
}

func (s *Server) renderOptions(r *http.Request, root *tree.RawNode, format string) pipeline.Options {
	q := r.URL.Query()
	return pipeline.Options{
		Tree:       root,
		Width:      queryFloat(q.Get("width")),
		Height:     queryFloat(q.Get("height")),
		Query:      q.Get("q"),
		Background: q.Get("bg"),
		Formats:    []string{format},
		Logger:     s.logger,
	}
}

func queryFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatDotSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
