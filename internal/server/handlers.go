package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/buildinfo"
	chartio "github.com/matzehuels/chartwheel/pkg/io"
	"github.com/matzehuels/chartwheel/pkg/pipeline"
	"github.com/matzehuels/chartwheel/pkg/template"
)

type wheelResponse struct {
	chartio.Output
	Cache pipeline.CacheInfo `json:"cache"`
}

type aspectsResponse struct {
	AspectSets map[string]aspect.Set `json:"aspect_sets"`
	CacheHit   bool                  `json:"cache_hit"`
}

type templateSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Layers      []string `json:"layers,omitempty"`
	Rings       int      `json:"rings"`
}

func (s *Server) buildWheel(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wheelResponse{Output: chartio.NewOutput(res), Cache: res.CacheInfo})
}

func (s *Server) computeAspects(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	sets, hit, err := s.runner.Aspects(r.Context(), opts)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aspectsResponse{AspectSets: sets, CacheHit: hit})
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	names := template.Builtins()
	out := make([]templateSummary, 0, len(names))
	for _, name := range names {
		doc, err := template.Builtin(name)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, templateSummary{
			ID:          doc.ID,
			Name:        doc.Name,
			Description: doc.Description,
			Layers:      doc.Layers,
			Rings:       len(doc.Rings),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	doc, err := template.Builtin(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

// decodeOptions reads pipeline options from the request body. Templates are
// restricted to builtins or an inline template_doc so clients cannot make
// the server read local files.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return pipeline.Options{}, badRequest("decode request: %v", err)
	}

	if opts.TemplateDoc == nil && opts.Template != "" {
		if strings.ContainsAny(opts.Template, "/\\") {
			return pipeline.Options{}, badRequest("template must be a builtin name or an inline template_doc")
		}
		doc, err := template.Builtin(opts.Template)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.TemplateDoc = &doc
	}
	opts.Logger = s.logger
	return opts, nil
}

func (s *Server) logFailure(r *http.Request, err error) {
	s.logger.Warn("request failed", "path", r.URL.Path, "err", err)
}
