// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// configurator. Pages and the JSON API share the workspace and CSRF
// middleware; the AI endpoints are additionally rate limited.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wpforge/internal/handlers"
	"wpforge/internal/middleware"
	"wpforge/internal/session"
	"wpforge/web"
)

// Options holds the router's tunables.
type Options struct {
	Logger *slog.Logger
	// Secure marks cookies Secure for TLS deployments.
	Secure bool
	// AILimiter throttles /api/suggest and /api/generate. Nil disables it.
	AILimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions *session.Store, cfg *handlers.Configurator, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.SecureHeaders)

	// Health check and assets: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.Workspace(sessions))

		// Pages
		r.Get("/", cfg.Index)
		r.Get("/preview", cfg.Preview)
		r.Post("/config", cfg.ConfigSubmit)
		r.Post("/config/reset", cfg.ConfigReset)

		// Generated files
		r.Get("/files", cfg.Files)
		r.Get("/files.zip", cfg.FilesZip)
		r.Get("/files/*", cfg.FileRaw)

		// JSON API
		r.Route("/api", func(r chi.Router) {
			r.Get("/config", cfg.ConfigGet)
			r.Put("/config", cfg.ConfigPut)
			r.Get("/providers", cfg.Providers)
			r.Post("/provider", cfg.SetProvider)

			// AI calls cost money and take seconds; throttle per client.
			r.Group(func(r chi.Router) {
				if opts.AILimiter != nil {
					r.Use(opts.AILimiter.Middleware)
				}
				r.Post("/suggest", cfg.Suggest)
				r.Post("/generate", cfg.Generate)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
