// Package api exposes the verification engine and the roster over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

// Verifier is the engine surface the API serves.
type Verifier interface {
	Verify(ctx context.Context, app model.Application) model.VerificationResult
	VerifyAll(ctx context.Context, apps []model.Application) []model.VerificationResult
	FindByName(text string, limit int) []model.RosterRecord
}

// Roster is the registry surface the API serves.
type Roster interface {
	Len() int
	LoadedAt() time.Time
	Source() string
	Reload(ctx context.Context) error
}

// Options configures the server.
type Options struct {
	AllowedOrigins []string
	// MaxBulkSize caps applications per bulk request. Default 1000.
	MaxBulkSize int
	// MaxBodyBytes caps request bodies. Default 10 MiB.
	MaxBodyBytes int64
}

// Server routes HTTP requests to the engine and registry.
type Server struct {
	verifier Verifier
	roster   Roster
	opts     Options
	log      *zap.Logger
}

// NewServer creates a Server.
func NewServer(verifier Verifier, roster Roster, opts Options) *Server {
	if opts.MaxBulkSize <= 0 {
		opts.MaxBulkSize = 1000
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		verifier: verifier,
		roster:   roster,
		opts:     opts,
		log:      zap.L().With(zap.String("component", "api")),
	}
}

// Router builds the chi router with middleware and routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/verify", s.handleVerify)
		r.Post("/verify/bulk", s.handleVerifyBulk)
		r.Get("/registry", s.handleRegistry)
		r.Get("/registry/search", s.handleSearch)
		r.Post("/registry/reload", s.handleReload)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-Id", middleware.GetReqID(r.Context()))

		next.ServeHTTP(ww, r)

		s.log.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
