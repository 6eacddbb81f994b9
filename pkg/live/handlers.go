package live

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/matzehuels/reasongraph/pkg/buildinfo"
	apperr "github.com/matzehuels/reasongraph/pkg/errors"
	"github.com/matzehuels/reasongraph/pkg/graph"
	"github.com/matzehuels/reasongraph/pkg/render"
)

// SVGElementID is the id of the inline drawing on the page.
const SVGElementID = "reasoning-graph"

type pageData struct {
	Title   string
	Caption string
	SVG     template.HTML
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:   render.DefaultHeading,
		Caption: render.DefaultCaption,
		SVG:     template.HTML(s.comp.SVG(render.WithID(SVGElementID))),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(s.comp.SVG())
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := graph.WriteGraph(s.comp.Graph(), w); err != nil {
		s.logger.Error("encode graph", "err", err)
	}
}

// putGraphResponse reports what SetGraph kept and skipped.
type putGraphResponse struct {
	Nodes        int          `json:"nodes"`
	Links        int          `json:"links"`
	DroppedNodes []graph.Node `json:"dropped_nodes"`
	DroppedLinks []graph.Link `json:"dropped_links"`
}

// handlePutGraph accepts any decodable graph; malformed links are skipped.
// With ?strict=true the graph must validate instead.
func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGraphBody)
	var g graph.Graph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode graph"))
		return
	}
	if r.URL.Query().Get("strict") == "true" {
		if err := graph.Validate(&g); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if err := s.comp.SetGraph(&g); err != nil {
		s.writeError(w, err)
		return
	}

	res := graph.Resolve(&g)
	s.logger.Info("graph replaced", "nodes", len(res.Graph.Nodes), "links", len(res.Graph.Links),
		"dropped_links", len(res.DroppedLinks))
	writeJSON(w, http.StatusOK, putGraphResponse{
		Nodes:        len(res.Graph.Nodes),
		Links:        len(res.Graph.Links),
		DroppedNodes: nonNil(res.DroppedNodes),
		DroppedLinks: nonNil(res.DroppedLinks),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.comp.Refresh(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type healthResponse struct {
	Status  string         `json:"status"`
	Mounted bool           `json:"mounted"`
	Clients int            `json:"clients"`
	Build   buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Mounted: s.comp.Mounted(),
		Clients: s.hub.Len(),
		Build:   buildinfo.Get(),
	})
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	s.hub.Serve(r.Context(), conn)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: apperr.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(w, r)
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
