// Package api serves the pairing engines over HTTP.
//
//	POST /v1/pairings/swiss          snapshot in, Swiss round out
//	POST /v1/pairings/round-robin    snapshot in, round-robin round out
//	POST /v1/compatibility           snapshot in, compatibility graph as DOT or SVG
//	GET  /v1/schedules/{players}     slot pairs of a full round robin
//	GET  /healthz                    liveness and build info
//	GET  /metrics                    Prometheus metrics
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/swisspair/pkg/buildinfo"
	"github.com/matzehuels/swisspair/pkg/cache"
	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/observability"
	"github.com/matzehuels/swisspair/pkg/pipeline"
	"github.com/matzehuels/swisspair/pkg/render/dot"
	"github.com/matzehuels/swisspair/pkg/swiss"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// maxBody bounds request bodies. A snapshot of a few hundred players with
// their full history fits comfortably.
const maxBody = 4 << 20

// Config configures a Server.
type Config struct {
	Runner  *pipeline.Runner
	Logger  *log.Logger
	Metrics *Metrics

	// MaxCandidates is applied to Swiss requests that do not set their own.
	MaxCandidates int

	// AllowedOrigins enables CORS for browser clients. Empty disables it.
	AllowedOrigins []string
}

// Server is the HTTP front end.
type Server struct {
	runner        *pipeline.Runner
	logger        *log.Logger
	metrics       *Metrics
	maxCandidates int
	origins       []string
}

// New returns a Server. A nil Runner gets an uncached one, a nil Logger
// log.Default() and a nil Metrics a fresh registry.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	return &Server{
		runner:        cfg.Runner,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		maxCandidates: cfg.MaxCandidates,
		origins:       cfg.AllowedOrigins,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/pairings/swiss", s.pair(pipeline.SystemSwiss))
		r.Post("/pairings/round-robin", s.pair(pipeline.SystemRoundRobin))
		r.Post("/compatibility", s.compatibility)
		r.Get("/schedules/{players}", s.schedule)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests logs one line per request and feeds the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// pairingRequest is the body of the pairing endpoints.
type pairingRequest struct {
	Snapshot      *tournament.Snapshot `json:"snapshot"`
	MaxCandidates int                  `json:"maxCandidates,omitempty"`
	Refresh       bool                 `json:"refresh,omitempty"`
}

func (s *Server) pair(system string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pairingRequest
		if err := decode(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
		if req.Snapshot == nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "snapshot is required"))
			return
		}
		opts := pipeline.Options{
			System:        system,
			MaxCandidates: req.MaxCandidates,
			Refresh:       req.Refresh,
			Logger:        s.logger,
		}
		if system == pipeline.SystemSwiss && opts.MaxCandidates == 0 {
			opts.MaxCandidates = s.maxCandidates
		}

		res, err := s.scopedRunner(req.Snapshot.TournamentID).Pair(r.Context(), req.Snapshot, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// scopedRunner isolates each tournament's cache entries.
func (s *Server) scopedRunner(tournamentID string) *pipeline.Runner {
	if tournamentID == "" {
		return s.runner
	}
	r := *s.runner
	r.Keyer = cache.NewScopedKeyer(s.runner.Keyer, cache.TournamentPrefix(tournamentID))
	return &r
}

type compatibilityRequest struct {
	Snapshot *tournament.Snapshot `json:"snapshot"`
	Format   string               `json:"format,omitempty"`
	Detailed bool                 `json:"detailed,omitempty"`
}

type compatibilityResponse struct {
	Feasible  bool     `json:"feasible"`
	Players   int      `json:"players"`
	Edges     int      `json:"edges"`
	Matched   int      `json:"matched"`
	Unmatched []string `json:"unmatched"`
	DOT       string   `json:"dot,omitempty"`
}

func (s *Server) compatibility(w http.ResponseWriter, r *http.Request) {
	var req compatibilityRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Snapshot == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "snapshot is required"))
		return
	}
	c, err := swiss.NewCompatibility(req.Snapshot)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ok, m, err := c.Feasible()
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvariant, err, "compatibility matching"))
		return
	}
	graph := dot.ToDOT(c, m, dot.Options{Detailed: req.Detailed, GroupScores: true})

	switch req.Format {
	case "svg":
		svg, err := dot.RenderSVG(r.Context(), graph)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg)
		return
	case "", "json", "dot":
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "format %q (must be one of: json, dot, svg)", req.Format))
		return
	}

	resp := compatibilityResponse{
		Feasible:  ok,
		Players:   len(c.Entities),
		Edges:     len(c.Graph.Edges()),
		Matched:   m.Size(),
		Unmatched: []string{},
		DOT:       graph,
	}
	for _, v := range m.Unmatched() {
		if v == c.Bye {
			resp.Unmatched = append(resp.Unmatched, "BYE")
			continue
		}
		resp.Unmatched = append(resp.Unmatched, c.Entities[v].ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

type scheduleResponse struct {
	Players int        `json:"players"`
	Double  bool       `json:"double"`
	Rounds  [][][2]int `json:"rounds"`
	Cached  bool       `json:"cached"`
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "players"))
	if err != nil || n < 0 || n > 1000 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "players must be an integer between 0 and 1000"))
		return
	}
	double := r.URL.Query().Get("double") == "true"
	rounds, hit, err := s.runner.Schedule(r.Context(), n, double)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rounds == nil {
		rounds = [][][2]int{}
	}
	writeJSON(w, http.StatusOK, scheduleResponse{Players: n, Double: double, Rounds: rounds, Cached: hit})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", maxBody)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
