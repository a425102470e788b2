// Package api provides the HTTP API server and handlers for the Pynade Hub content directory.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/http/response"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

const (
	apiPrefix   = "/api/v1"
	adminPrefix = apiPrefix + "/admin"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store         store.Store
	services      *Services
	router        *chi.Mux
	api           huma.API
	logger        *slog.Logger
	publicLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, cfg config.ServerConfig, logger *slog.Logger) *Server {
	s := &Server{
		store:    st,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}
	if cfg.PublicRPS > 0 {
		burst := int(cfg.PublicRPS * 2)
		s.publicLimiter = NewRateLimiter(int(cfg.PublicRPS*60), time.Minute, max(burst, 1))
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig("Pynade Hub API", "1.0.0")
	humaConfig.Info.Description = "Blogs, products and vacancies with shared tags and categories."
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, used by tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.publicLimiter != nil {
		s.publicLimiter.Stop()
	}
}

func (s *Server) setupMiddleware(cfg config.ServerConfig) {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(s.recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if s.publicLimiter != nil {
		s.router.Use(PublicRateLimitMiddleware(s.publicLimiter, s.logger))
	}
	s.router.Use(cacheControl)
}

// recoverer turns a handler panic into a 500 with the usual error body.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("panic serving request",
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			response.HandleError(w, fmt.Errorf("panic: %v", rec), s.logger)
		}()
		next.ServeHTTP(w, r)
	})
}

// cacheControl marks public reads as briefly cacheable and everything under
// the admin prefix as uncacheable.
func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, adminPrefix+"/"):
			w.Header().Set("Cache-Control", CacheNoStore)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, apiPrefix+"/"):
			w.Header().Set("Cache-Control", CachePublicList)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()

	// Public storefront.
	s.registerBlogRoutes()
	s.registerProductRoutes()
	s.registerVacancyRoutes()
	s.registerCategoryRoutes()
	s.registerTagRoutes()

	// Admin.
	s.registerAdminCategoryRoutes()
	s.registerAdminTagRoutes()
	s.registerAdminBlogRoutes()
	s.registerAdminProductRoutes()
	s.registerAdminVacancyRoutes()
	s.registerAssociationRoutes()
	s.registerCommentRoutes()
	s.registerGitHubRoutes()
}
