package server

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fpminer/pkg/buildinfo"
	errs "github.com/matzehuels/fpminer/pkg/errors"
	"github.com/matzehuels/fpminer/pkg/pipeline"
)

// mineResponse is the body of a successful POST /v1/mine.
type mineResponse struct {
	*pipeline.Result
	Cached     bool  `json:"cached"`
	DurationMS int64 `json:"duration_ms"`
}

// treeResponse is the JSON body of POST /v1/tree with output=dot.
type treeResponse struct {
	DOT      string `json:"dot"`
	Items    int    `json:"items"`
	Nodes    int    `json:"nodes"`
	MinCount int    `json:"min_count"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	opts, err := mineOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.MineTimeout)
	defer cancel()
	res, err := s.runner.Execute(ctx, in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mineResponse{
		Result:     res,
		Cached:     res.CacheInfo.Hit,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	opts, err := treeOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.MineTimeout)
	defer cancel()
	res, err := s.runner.Tree(ctx, in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Output == pipeline.OutputDOT {
		writeJSON(w, http.StatusOK, treeResponse{
			DOT:      string(res.Data),
			Items:    res.Items,
			Nodes:    res.Nodes,
			MinCount: res.MinCount,
		})
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	reports, err := s.reports.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reports == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readInput reads the request body up to the configured limit. The input is
// named by the "name" query parameter.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (pipeline.Input, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return pipeline.Input{}, err
	}
	if len(data) == 0 {
		return pipeline.Input{}, errs.New(errs.ErrCodeInvalidInput, "request body is empty")
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "request"
	}
	return pipeline.Input{Name: name, Data: data}, nil
}

// =============================================================================
// Query parameters
// =============================================================================

// params reads typed query parameters, remembering the first parse error.
type params struct {
	q   url.Values
	err error
}

func (p *params) text(key string, dst *string) {
	if v, ok := p.q[key]; ok && len(v) > 0 {
		*dst = v[0]
	}
}

func (p *params) number(key string, dst *float64) {
	v := p.q.Get(key)
	if v == "" || p.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = errs.New(errs.ErrCodeInvalidOption, "%s: invalid number %q", key, v)
		return
	}
	*dst = f
}

func (p *params) integer(key string, dst *int) {
	v := p.q.Get(key)
	if v == "" || p.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = errs.New(errs.ErrCodeInvalidOption, "%s: invalid integer %q", key, v)
		return
	}
	*dst = n
}

func (p *params) boolean(key string, dst *bool) {
	v := p.q.Get(key)
	if v == "" || p.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = errs.New(errs.ErrCodeInvalidOption, "%s: invalid boolean %q", key, v)
		return
	}
	*dst = b
}

func (p *params) dataset(o *pipeline.DatasetOptions) {
	p.text("format", &o.Format)
	p.text("delimiter", &o.Delimiter)
	p.text("weight_column", &o.WeightColumn)
	p.text("positive", &o.Positive)
}

// mineOptions builds mining options from query parameters on top of the
// defaults and validates them.
func mineOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	p := &params{q: q}
	p.dataset(&opts.DatasetOptions)
	p.number("min_support", &opts.MinSupport)
	p.integer("max_items", &opts.MaxItems)
	p.text("must_contain", &opts.MustContain)
	p.boolean("find_min_number_of_itemsets", &opts.FindMinNumberOfItemsets)
	p.integer("min_number_of_itemsets", &opts.MinNumberOfItemsets)
	p.integer("max_number_of_retries", &opts.MaxNumberOfRetries)
	p.text("projection", &opts.Projection)
	p.boolean("refresh", &opts.Refresh)
	if p.err != nil {
		return pipeline.Options{}, p.err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func treeOptions(q url.Values) (pipeline.TreeOptions, error) {
	var opts pipeline.TreeOptions
	p := &params{q: q}
	p.dataset(&opts.DatasetOptions)
	p.number("min_support", &opts.MinSupport)
	p.text("output", &opts.Output)
	p.boolean("siblings", &opts.Siblings)
	p.integer("max_nodes", &opts.MaxNodes)
	p.boolean("refresh", &opts.Refresh)
	if p.err != nil {
		return pipeline.TreeOptions{}, p.err
	}
	if err := opts.Validate(); err != nil {
		return pipeline.TreeOptions{}, err
	}
	return opts, nil
}
