package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/iloginov/tasker/pkg/buildinfo"
	"github.com/iloginov/tasker/pkg/cache"
	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/graph"
	"github.com/iloginov/tasker/pkg/pipeline"
)

// ProjectIDHeader scopes cache entries to a project.
const ProjectIDHeader = "X-Project-ID"

type layoutRequest struct {
	Graph   json.RawMessage `json:"graph"`
	Options json.RawMessage `json:"options,omitempty"`
}

type layoutResponse struct {
	Layout    graph.LayoutDoc   `json:"layout"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
	Stats     statsResponse     `json:"stats"`
	Cached    cachedResponse    `json:"cached"`
}

type statsResponse struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
	Ranks int `json:"ranks"`
}

type cachedResponse struct {
	Layout bool `json:"layout"`
	Render bool `json:"render"`
}

type checkRequest struct {
	Graph json.RawMessage `json:"graph"`
	From  string          `json:"from"`
	To    string          `json:"to"`
}

type checkResponse struct {
	OK   bool   `json:"ok"`
	From string `json:"from"`
	To   string `json:"to"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	doc, err := parseGraph(req.Graph)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	runner, err := s.runnerFor(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := layoutResponse{
		Layout: graph.Export(result.Layout, result.GraphHash, result.Labels),
		Stats: statsResponse{
			Nodes: result.Stats.NodeCount,
			Edges: result.Stats.EdgeCount,
			Ranks: result.Stats.RankCount,
		},
		Cached: cachedResponse{Layout: result.CacheInfo.LayoutHit, Render: result.CacheInfo.RenderHit},
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.From == "" || req.To == "" {
		s.respondError(w, r, terrors.New(terrors.ErrCodeInvalidInput, "from and to are required"))
		return
	}
	doc, err := parseGraph(req.Graph)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	runner, err := s.runnerFor(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := runner.CheckDependency(r.Context(), doc, req.From, req.To); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{OK: true, From: req.From, To: req.To})
}

// decodeBody strictly decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return terrors.Wrap(terrors.ErrCodeInvalidFormat, err, "invalid request body: %v", err)
	}
	if dec.More() {
		return terrors.New(terrors.ErrCodeInvalidFormat, "invalid request body: trailing data")
	}
	return nil
}

func parseGraph(raw json.RawMessage) (*graph.Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, terrors.New(terrors.ErrCodeInvalidInput, "graph is required")
	}
	return graph.Parse(raw, graph.FormatJSON)
}

// options decodes request options on top of the server defaults.
func (s *Server) options(raw json.RawMessage) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = slices.Clone(s.defaults.Formats)
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return opts, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid options: %v", err)
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// runnerFor returns the runner for the request, scoped to its project when
// the request names one.
func (s *Server) runnerFor(r *http.Request) (*pipeline.Runner, error) {
	id := r.Header.Get(ProjectIDHeader)
	if id == "" {
		return s.runner, nil
	}
	if err := terrors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	return s.runner.WithKeyer(cache.NewScopedKeyer(s.runner.Keyer, cache.ProjectScope(id))), nil
}
