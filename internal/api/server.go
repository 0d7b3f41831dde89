// Package api serves prepared releases and preparation requests over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/relprep/relprep/internal/domain"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/http/response"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/search"
	"github.com/relprep/relprep/internal/service"
	"github.com/relprep/relprep/internal/store"
	"github.com/relprep/relprep/internal/validation"
)

// Version is reported by the OpenAPI document and the health endpoint.
const Version = "0.1.0"

// Releases is the release service as the API sees it.
type Releases interface {
	PrepareAudio(ctx context.Context, dir string) (*domain.Release, error)
	PrepareVideo(ctx context.Context, path string) (*domain.Release, error)
	Get(ctx context.Context, id string) (*domain.Release, error)
	List(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Release], error)
	Delete(ctx context.Context, id string) error
	Description(ctx context.Context, id string, format service.DescriptionFormat) (string, error)
	Search(ctx context.Context, params search.Params) (*search.Result, error)
}

// HealthCheck probes one component. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
	// Checks are reported by /api/v1/health, keyed by component name.
	Checks map[string]HealthCheck
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	releases  Releases
	opts      Options
	router    *chi.Mux
	api       huma.API
	validator *validation.Validator
	logger    *logger.Logger
	started   time.Time
}

// NewServer creates a server with all routes configured.
func NewServer(releases Releases, opts Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{
		releases:  releases,
		opts:      opts,
		router:    chi.NewRouter(),
		validator: validation.New(),
		logger:    log.Component("api"),
		started:   time.Now(),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("relprep API", Version)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerReleaseRoutes()
	s.registerSearchRoutes()

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r, s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(s.recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Compress(5))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// fail converts a service error for huma, logging errors that carry no
// domain code since their text is not returned to the client.
func (s *Server) fail(err error) error {
	if domainerrors.CodeOf(err) == domainerrors.CodeInternal {
		s.logger.Error("request failed", "error", err)
	}
	return toAPIError(err)
}
