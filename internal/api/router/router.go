// Package router wires the HTTP surface: the chat webhook, health check and
// metrics endpoint.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pulsefit/gymchat/internal/http/handlers"
	httpmiddleware "github.com/pulsefit/gymchat/internal/http/middleware"
	"github.com/pulsefit/gymchat/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatWebhook        *handlers.ChatWebhookHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Webhook rate limit. Zero disables limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.ChatWebhook.HealthCheck)

	if cfg.RateLimitPerSecond > 0 {
		r.With(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst)).
			Post("/webhooks/chat", cfg.ChatWebhook.Handle)
	} else {
		r.Post("/webhooks/chat", cfg.ChatWebhook.Handle)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
