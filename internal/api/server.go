// Package api exposes the scoring engine, the AI responder and the view
// counter over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/ai"
	"github.com/spigell/folio/internal/catalog"
	"github.com/spigell/folio/internal/responder"
	"github.com/spigell/folio/internal/scoring"
	"github.com/spigell/folio/internal/views"
)

const defaultMaxBodyBytes = 1 << 20

// Config holds the transport settings of the HTTP API.
type Config struct {
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	RateLimitDisabled  bool
	MaxBodyBytes       int64
	Version            string
}

func DefaultConfig() Config {
	return Config{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  60,
		RateLimitWindow:    time.Minute,
		MaxBodyBytes:       defaultMaxBodyBytes,
		Version:            "dev",
	}
}

// Deps are the collaborators every handler works with. Capability may be nil,
// in which case every AI backed endpoint answers with fallback text.
type Deps struct {
	Catalog    *catalog.Catalog
	Engine     *scoring.Engine
	Responder  *responder.Responder
	Capability ai.Capability
	Views      *views.Counter
	Logger     *zap.Logger
}

type Server struct {
	cfg        Config
	catalog    *catalog.Catalog
	engine     *scoring.Engine
	responder  *responder.Responder
	capability ai.Capability
	views      *views.Counter
	logger     *zap.Logger
}

// New wires a Server. Missing collaborators are replaced by defaults built on
// the process wide random generator.
func New(deps Deps, cfg Config) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Engine == nil {
		deps.Engine = scoring.NewEngine(scoring.EntropySource{}, log)
	}
	if deps.Responder == nil {
		deps.Responder = responder.New(responder.DefaultConfig(), nil, log)
	}
	if deps.Views == nil {
		deps.Views = views.NewCounter()
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	return &Server{
		cfg:        cfg,
		catalog:    deps.Catalog,
		engine:     deps.Engine,
		responder:  deps.Responder,
		capability: deps.Capability,
		views:      deps.Views,
		logger:     log,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogging(s.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(s.cfg.CORSAllowedOrigins))
	r.Use(prometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	limiter := rateLimit(s.cfg)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter)

		r.Post("/recommend", s.handleRecommend)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/chat", s.handleChat)
		r.Post("/chat/persona", s.handlePersonaChat)

		r.Get("/views", s.handleViewsSnapshot)
		r.Get("/views/{slug}", s.handleViewsGet)
		r.Post("/views/{slug}", s.handleViewsIncrement)
	})

	// Paths served before the /api prefix existed.
	r.Group(func(r chi.Router) {
		r.Use(limiter)

		r.Post("/recommend", s.handleRecommend)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/chat", s.handleChat)
	})

	return r
}
