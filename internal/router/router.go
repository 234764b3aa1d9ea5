// Package router sets up all HTTP routes and middleware chains for the
// blogpress API. Content routes and cache management share one middleware
// stack; the API group is additionally rate limited.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blogpress/internal/handlers"
	"blogpress/internal/middleware"
)

// Options holds the optional pieces of the middleware stack. A nil field
// leaves that piece out.
type Options struct {
	CORSOrigins []string
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.SecureHeaders)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader, "X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonStatus(w, http.StatusNotFound, `{"error":"not found"}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonStatus(w, http.StatusMethodNotAllowed, `{"error":"method not allowed"}`)
	})

	// Health check and metrics are not rate limited.
	r.Get("/health", healthHandler)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Get("/home", api.Home)
		r.Get("/search", api.Search)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.ListPosts)
			r.Get("/slug/{slug}", api.GetPostBySlug)
			r.Get("/{id}", api.GetPost)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.ListCategories)
			r.Get("/slug/{slug}", api.GetCategoryBySlug)
			r.Get("/{id}", api.GetCategory)
		})

		r.Route("/authors", func(r chi.Router) {
			r.Get("/", api.ListAuthors)
			r.Get("/{id}", api.GetAuthor)
		})

		// Cache management.
		r.Route("/cache", func(r chi.Router) {
			r.Delete("/", api.ClearAll)
			r.Get("/log", api.CacheLog)
			r.Delete("/posts/{id}", api.ClearPost)
			r.Delete("/categories/{id}", api.ClearCategory)
			r.Delete("/authors/{id}", api.ClearAuthor)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	jsonStatus(w, http.StatusOK, `{"status":"ok"}`)
}

func jsonStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
