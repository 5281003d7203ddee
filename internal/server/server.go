// Package server exposes the lead generation pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/config"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/leadgen"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/search"
)

// StatusClientClosedRequest is logged and written when the caller goes away
// before the run finishes.
const StatusClientClosedRequest = 499

const (
	defaultRequestTimeout = 2 * time.Minute
	maxRequestBytes       = 64 << 10
)

// Runner executes one lead generation request.
type Runner interface {
	Run(ctx context.Context, req leadgen.Request) (*leadgen.Result, error)
}

// Server routes HTTP requests to a Runner.
type Server struct {
	runner   Runner
	cfg      config.ServerConfig
	defaults search.Options
	gatherer prometheus.Gatherer
	timeout  time.Duration
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultOptions sets the search options used for fields a request
// leaves unset.
func WithDefaultOptions(o search.Options) Option {
	return func(s *Server) { s.defaults = o }
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithRequestTimeout bounds each search request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Server.
func New(runner Runner, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		cfg:      cfg,
		defaults: search.DefaultOptions(),
		gatherer: prometheus.DefaultGatherer,
		timeout:  defaultRequestTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(s.cfg.AllowedOrigins)))

	r.Get("/health", s.handleHealth)
	r.Post("/v1/search", s.handleSearch)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           7200,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns an http.Server listening on the configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchRequest struct {
	Query             string   `json:"query"`
	Location          string   `json:"location"`
	MaxResults        int      `json:"max_results"`
	RequireMinResults int      `json:"require_min_results"`
	Sources           []string `json:"sources"`
	Enrich            bool     `json:"enrich"`
	Score             bool     `json:"score"`
}

func (s *Server) toRequest(in searchRequest) leadgen.Request {
	opts := s.defaults
	if in.MaxResults > 0 {
		opts.MaxResults = in.MaxResults
	}
	if in.RequireMinResults > 0 {
		opts.RequireMinResults = in.RequireMinResults
	}
	if len(in.Sources) > 0 {
		opts.SourceOrder = in.Sources
	}
	return leadgen.Request{
		Query:    in.Query,
		Location: in.Location,
		Options:  opts,
		Enrich:   in.Enrich,
		Score:    in.Score,
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	log := zap.L().With(zap.String("request_id", middleware.GetReqID(r.Context())))

	var in searchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	res, err := s.runner.Run(ctx, s.toRequest(in))
	if err != nil {
		status := statusFor(err)
		switch {
		case status == StatusClientClosedRequest:
			log.Info("server: client closed request", zap.String("query", in.Query))
		case status >= http.StatusInternalServerError:
			log.Error("server: search failed", zap.String("query", in.Query), zap.Error(err))
		default:
			log.Debug("server: search rejected", zap.String("query", in.Query), zap.Error(err))
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
