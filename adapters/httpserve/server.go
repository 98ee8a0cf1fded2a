// Package httpserve exposes persisted reports and on-demand analysis over
// HTTP: JSON browsing, rendered documents, health, and Prometheus metrics.
package httpserve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dataquality/app"
	"dataquality/domain/core"
	"dataquality/internal/config"
	apperrors "dataquality/internal/errors"
	"dataquality/ports"
)

// Server is the HTTP report browser
type Server struct {
	router  *chi.Mux
	service *app.Service
	logger  *slog.Logger
	metrics *metrics
	cfg     config.ServerConfig
	opts    app.Options
}

type metrics struct {
	registry *prometheus.Registry
	analyses *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dq_analyses_total",
			Help: "Analyses run through the HTTP server, by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dq_analysis_duration_seconds",
			Help:    "Wall time of analyses run through the HTTP server.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.analyses, m.duration)
	return m
}

// New creates the server and mounts its routes.
func New(cfg config.ServerConfig, service *app.Service, opts app.Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
		metrics: newMetrics(),
		cfg:     cfg,
		opts:    opts,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(render.SetContentType(render.ContentTypeJSON))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Get("/reports/{id}/document", s.handleReportDocument)
		r.Post("/analyze", s.handleAnalyze)
	})
}

// Router returns the handler, used by tests and embedding callers.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration_ms", time.Since(start).Milliseconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	summaries, err := s.service.History(r.Context(), limit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"reports": summaries})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseReportID(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, apperrors.InvalidInput(err.Error()))
		return
	}
	stored, err := s.service.Report(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, stored)
}

func (s *Server) handleReportDocument(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseReportID(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, apperrors.InvalidInput(err.Error()))
		return
	}

	formatName := r.URL.Query().Get("format")
	if formatName == "" {
		formatName = string(ports.FormatHTML)
	}
	format, err := ports.ParseFormat(formatName)
	if err != nil {
		s.renderError(w, r, apperrors.InvalidInput(err.Error()))
		return
	}

	stored, err := s.service.Report(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	doc, err := s.service.Render(stored.Result, format)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// analyzeRequest is the POST /api/analyze body. The path must be readable
// by the server process; this is a local report browser, not a file upload
// surface.
type analyzeRequest struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	SampleSize int    `json:"sample_size"`
	Save       bool   `json:"save"`
}

type analyzeResponse struct {
	ID     string      `json:"id,omitempty"`
	Result interface{} `json:"result"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, apperrors.InvalidInput("invalid request body"))
		return
	}
	if req.Path == "" {
		s.renderError(w, r, apperrors.InvalidInput("path is required"))
		return
	}

	opts := s.opts
	if req.SampleSize > 0 {
		opts.SampleSize = req.SampleSize
	}

	start := time.Now()
	result, err := s.service.AnalyzeFile(r.Context(), req.Path, req.Name, opts)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.analyses.WithLabelValues("error").Inc()
		s.renderError(w, r, err)
		return
	}
	s.metrics.analyses.WithLabelValues("ok").Inc()

	resp := analyzeResponse{Result: result}
	if req.Save {
		id, err := s.service.Save(r.Context(), result)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		resp.ID = id.String()
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// errResponse is the uniform error body
type errResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeLoadFailed:
		status = http.StatusBadRequest
	case apperrors.CodeAnalysisError:
		status = http.StatusUnprocessableEntity
	}
	if errors.Is(err, core.ErrReportNotFound) {
		status = http.StatusNotFound
	}

	s.logger.Warn("request failed", "path", r.URL.Path, "code", apperrors.GetCode(err), "error", err)
	render.Status(r, status)
	render.JSON(w, r, errResponse{Code: apperrors.GetCode(err), Error: err.Error()})
}

func contentType(format ports.Format) string {
	switch format {
	case ports.FormatHTML:
		return "text/html; charset=utf-8"
	case ports.FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
