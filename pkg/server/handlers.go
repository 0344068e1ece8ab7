package server

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stacklayout/pkg/buildinfo"
	"github.com/matzehuels/stacklayout/pkg/document"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
	"github.com/matzehuels/stacklayout/pkg/region"
	"github.com/matzehuels/stacklayout/pkg/units"
)

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// =============================================================================
// Layout
// =============================================================================

// handleLayout handles POST /v1/layout.
//
// The body is a graph document; its encoding follows Content-Type (JSON by
// default, application/yaml, application/toml). Query parameters override
// the document: algorithm, seed, curved, curvature, refresh, prior (ID of
// a stored layout).
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format, err := bodyFormat(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return
	}
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	g, err := document.DecodeGraph(body, format)
	if err != nil {
		writeError(w, err)
		return
	}

	opts, err := layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if id := r.URL.Query().Get("prior"); id != "" {
		if opts.Prior, err = s.runner.Load(ctx, id); err != nil {
			writeError(w, err)
			return
		}
	}

	res, err := s.runner.Layout(ctx, g, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.runner.Save(ctx, res.Layout); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/layout/"+res.Layout.ID)
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusCreated, res.Layout)
}

// handleGetLayout handles GET /v1/layout/{id}.
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.runner.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func bodyFormat(contentType string) (document.Format, error) {
	if contentType == "" {
		return document.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type")
	}
	switch mediaType {
	case "application/json":
		return document.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return document.FormatYAML, nil
	case "application/toml":
		return document.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported content type %q", mediaType)
}

func layoutOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Algorithm: q.Get("algorithm")}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed: %q is not an unsigned integer", v)
		}
		opts.Seed = &seed
	}
	if v := q.Get("curved"); v != "" {
		curved, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "curved: %q is not a boolean", v)
		}
		opts.Curved = &curved
	}
	if v := q.Get("curvature"); v != "" {
		c, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "curvature: %q is not a number", v)
		}
		if err := errors.RequireFinite("curvature", c); err != nil {
			return opts, err
		}
		opts.Curvature = &c
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh: %q is not a boolean", v)
		}
		opts.Refresh = refresh
	}
	return opts, nil
}

// =============================================================================
// Region
// =============================================================================

// regionRequest is the body of POST /v1/region. Exactly the placement
// fields of region.Spec, with the parent rectangle as (xmin, xmax, ymin,
// ymax). Lengths are numbers (pixels) or strings such as "25%".
type regionRequest struct {
	Parent [4]float64     `json:"parent"`
	Bounds []units.Length `json:"bounds,omitempty"`
	Rect   []units.Length `json:"rect,omitempty"`
	Corner *cornerRequest `json:"corner,omitempty"`
	Grid   []int          `json:"grid,omitempty"`
	Gutter *units.Length  `json:"gutter,omitempty"`
}

type cornerRequest struct {
	Position string       `json:"position"`
	Inset    units.Length `json:"inset"`
	Width    units.Length `json:"width"`
	Height   units.Length `json:"height"`
}

type rectResponse struct {
	XMin   float64 `json:"xmin"`
	XMax   float64 `json:"xmax"`
	YMin   float64 `json:"ymin"`
	YMax   float64 `json:"ymax"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// handleRegion handles POST /v1/region.
func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	var req regionRequest
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, s.maxBodyBytes), &req); err != nil {
		writeError(w, err)
		return
	}

	spec := region.Spec{
		Bounds: req.Bounds,
		Rect:   req.Rect,
		Grid:   req.Grid,
		Gutter: req.Gutter,
	}
	if c := req.Corner; c != nil {
		spec.Corner = &region.Corner{Position: c.Position, Inset: c.Inset, Width: c.Width, Height: c.Height}
	}
	parent := region.Rect{XMin: req.Parent[0], XMax: req.Parent[1], YMin: req.Parent[2], YMax: req.Parent[3]}

	rect, err := region.Resolve(parent, spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rectResponse{
		XMin: rect.XMin, XMax: rect.XMax,
		YMin: rect.YMin, YMax: rect.YMax,
		Width: rect.Width(), Height: rect.Height(),
	})
}
