package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockplan/pkg/align"
	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/buildinfo"
	"github.com/matzehuels/blockplan/pkg/config"
	"github.com/matzehuels/blockplan/pkg/errors"
	"github.com/matzehuels/blockplan/pkg/httputil"
	docio "github.com/matzehuels/blockplan/pkg/io"
	"github.com/matzehuels/blockplan/pkg/observability"
	"github.com/matzehuels/blockplan/pkg/pipeline"
	"github.com/matzehuels/blockplan/pkg/plan"
	"github.com/matzehuels/blockplan/pkg/segment"
)

const shutdownTimeout = 5 * time.Second

// contentTypes for raw artifact responses.
var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatHTML: "text/html; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning pipeline over HTTP",
		Long: `Serve the planning pipeline over HTTP.

Endpoints:
  POST /v1/plan      build a plan; JSON envelope or raw document body
  POST /v1/segment   segment a raw document body
  GET  /v1/align     resolve ?columns=1,2,1
  GET  /healthz      build info

Raw bodies are editor JSON, or Markdown when sent as text/markdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, c.Config, c.Logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Info("listening", "addr", addr, "cache", c.Config.Cache.Backend)

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner *pipeline.Runner
	cfg    config.Config
	logger *log.Logger
}

func newServer(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *server {
	return &server{runner: runner, cfg: cfg, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	if s.cfg.Server.Timeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Post("/segment", s.handleSegment)
		r.Get("/align", s.handleAlign)
	})
	return r
}

// instrument attaches a request-scoped logger and reports request events to
// the HTTP hooks.
func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := httputil.RequestIDFrom(ctx)
		ctx = withLogger(ctx, s.logger.With("request_id", id))

		observability.HTTP().OnRequest(ctx, id, r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(ctx, id, r.Method, r.URL.Path, status, time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// planRequest is the JSON envelope for POST /v1/plan. Document holds editor
// JSON, or a JSON string with source text for non-JSON sources.
type planRequest struct {
	Document json.RawMessage  `json:"document"`
	Options  pipeline.Options `json:"options"`
}

type planResponse struct {
	Plan      json.RawMessage   `json:"plan"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
	DocHash   string            `json:"doc_hash"`
	PlanHash  string            `json:"plan_hash"`
	Stats     planStats         `json:"stats"`
	Cached    cacheStatus       `json:"cached"`
}

type planStats struct {
	Blocks    int   `json:"blocks"`
	Sections  int   `json:"sections"`
	Groups    int   `json:"groups"`
	Discarded int   `json:"discarded"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

type cacheStatus struct {
	Plan   bool `json:"plan"`
	Render bool `json:"render"`
}

// handlePlan builds a plan. With ?render=<format> the single artifact is
// returned as the response body instead of the JSON envelope.
func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	src, opts, err := s.planInput(w, r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	render := r.URL.Query().Get("render")
	if render != "" {
		if err := pipeline.ValidateFormat(render); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		opts.Formats = []string{render}
	}

	start := time.Now()
	result, err := s.runner.Execute(r.Context(), src, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if render != "" {
		w.Header().Set("Content-Type", contentTypes[render])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifacts[render])
		return
	}

	planJSON, err := plan.Marshal(result.Plan)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := planResponse{
		Plan:     planJSON,
		DocHash:  result.DocHash,
		PlanHash: result.PlanHash,
		Stats: planStats{
			Blocks:    result.Stats.Blocks,
			Sections:  result.Stats.Sections,
			Groups:    result.Stats.Groups,
			Discarded: result.Stats.Discarded,
			ElapsedMS: time.Since(start).Milliseconds(),
		},
		Cached: cacheStatus{Plan: result.CacheInfo.PlanHit, Render: result.CacheInfo.RenderHit},
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
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// planInput reads either a JSON envelope or a raw document body with options
// from the query string.
func (s *server) planInput(w http.ResponseWriter, r *http.Request) ([]byte, pipeline.Options, error) {
	limit := s.cfg.Server.MaxBodySize
	if isMarkdown(r) || r.URL.Query().Has("raw") {
		src, err := httputil.ReadBody(w, r, limit)
		if err != nil {
			return nil, pipeline.Options{}, err
		}
		opts := s.queryOptions(r)
		if isMarkdown(r) {
			opts.Source = string(docio.FormatMarkdown)
		}
		return src, opts, nil
	}

	var req planRequest
	if err := httputil.DecodeJSON(w, r, limit, &req); err != nil {
		return nil, pipeline.Options{}, err
	}
	if len(req.Document) == 0 || string(req.Document) == "null" {
		return nil, pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	src := []byte(req.Document)
	var text string
	if json.Unmarshal(req.Document, &text) == nil {
		src = []byte(text)
		if req.Options.Source == "" {
			req.Options.Source = string(docio.FormatMarkdown)
		}
	}
	s.applyDefaults(&req.Options)
	return src, req.Options, nil
}

// queryOptions reads options from query parameters.
func (s *server) queryOptions(r *http.Request) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		Source:        q.Get("source"),
		Anchor:        q.Get("anchor"),
		Formats:       parseList(q.Get("formats")),
		Standalone:    queryBool(q.Get("standalone")),
		Title:         q.Get("title"),
		Detailed:      queryBool(q.Get("detailed")),
		RequireAnchor: queryBool(q.Get("require_anchor")),
		Refresh:       queryBool(q.Get("refresh")),
	}
	if q.Has("breakout") {
		opts.Breakout = append([]string{}, parseList(q.Get("breakout"))...)
	}
	s.applyDefaults(&opts)
	return opts
}

func (s *server) applyDefaults(opts *pipeline.Options) {
	if opts.Anchor == "" {
		opts.Anchor = s.cfg.Segment.Anchor
	}
	if opts.Breakout == nil {
		opts.Breakout = append([]string{}, s.cfg.Partition.Breakout...)
	}
	opts.Logger = s.logger
}

type sectionResponse struct {
	Title   string          `json:"title,omitempty"`
	ID      string          `json:"id,omitempty"`
	Content json.RawMessage `json:"content"`
}

type segmentResponse struct {
	Pre    []sectionResponse `json:"pre"`
	Anchor json.RawMessage   `json:"anchor"`
	Post   []sectionResponse `json:"post"`
	Stats  segment.Stats     `json:"stats"`
}

// handleSegment segments a raw document without partitioning or caching.
func (s *server) handleSegment(w http.ResponseWriter, r *http.Request) {
	src, err := httputil.ReadBody(w, r, s.cfg.Server.MaxBodySize)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	opts := s.queryOptions(r)
	if isMarkdown(r) {
		opts.Source = string(docio.FormatMarkdown)
	}
	if err := errors.ValidateComponentName(opts.Anchor); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	doc, err := pipeline.Decode(src, opts.Source)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	res := segment.Segment(doc, opts.SegmentOptions())

	resp := segmentResponse{Anchor: json.RawMessage("null"), Stats: res.Stats}
	if res.Anchor != nil {
		if resp.Anchor, err = block.MarshalBlock(res.Anchor); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if resp.Pre, err = sectionResponses(res.Pre); err != nil {
		s.fail(w, r, err)
		return
	}
	if resp.Post, err = sectionResponses(res.Post); err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func sectionResponses(sections []segment.Section) ([]sectionResponse, error) {
	out := make([]sectionResponse, 0, len(sections))
	for _, sec := range sections {
		content, err := block.Marshal(sec.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, sectionResponse{Title: sec.Title, ID: sec.ID, Content: content})
	}
	return out, nil
}

type alignResponse struct {
	Columns    []float64         `json:"columns"`
	Alignments []align.Alignment `json:"alignments"`
}

func (s *server) handleAlign(w http.ResponseWriter, r *http.Request) {
	weights, err := parseWeights([]string{r.URL.Query().Get("columns")})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alignResponse{Columns: weights, Alignments: align.Resolve(weights)})
}

// fail logs unexpected errors before writing the response.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, context.DeadlineExceeded) {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	}
	if errors.HTTPStatus(err) >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "err", err)
	}
	httputil.WriteError(w, r, err)
}

// =============================================================================
// Helpers
// =============================================================================

func isMarkdown(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mt == "text/markdown" || mt == "text/x-markdown")
}

func queryBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
