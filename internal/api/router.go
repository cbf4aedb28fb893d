// Package api exposes the outreach service over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/outreach"
)

const maxBodyBytes = 1 << 20

// Config tunes the router.
type Config struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// ConfigFrom converts the server section of the application config.
func ConfigFrom(c config.ServerConfig) Config {
	return Config{
		CORSOrigins:    c.CORSOrigins,
		RequestTimeout: time.Duration(c.RequestTimeoutSecs) * time.Second,
	}
}

// Handler serves the outreach API.
type Handler struct {
	svc *outreach.Service
}

// NewRouter builds the chi router for svc.
func NewRouter(svc *outreach.Service, cfg Config) http.Handler {
	h := &Handler{svc: svc}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Use(middleware.AllowContentType("application/json"))

		r.Post("/companies/search", h.searchCompanies)
		r.Post("/employees/search", h.searchEmployees)
		r.Post("/employees/batch", h.searchEmployeesBatch)
		r.Post("/emails/guess", h.guessEmail)
		r.Post("/emails/generate", h.generateEmail)
		r.Post("/linkedin/url", h.linkedInURL)
		r.Get("/searches", h.listSearches)
		r.Get("/searches/{id}", h.getSearch)
	})
	return r
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zap.L().Info("api: request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
