// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the wpforge theme configurator.
// It loads configuration, picks the session backend, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wpforge/internal/ai"
	"wpforge/internal/cache"
	"wpforge/internal/config"
	"wpforge/internal/handlers"
	"wpforge/internal/highlight"
	"wpforge/internal/middleware"
	"wpforge/internal/render"
	"wpforge/internal/router"
	"wpforge/internal/session"
)

func main() {
	// Structured logger: debug level while developing, info otherwise.
	level := slog.LevelInfo
	if os.Getenv("APP_ENV") == "" || os.Getenv("APP_ENV") == "development" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Session backend: Valkey when configured, process memory otherwise.
	var backend cache.Store
	if cfg.UseValkey() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		backend = cache.NewValkey(valkeyClient, session.KeyPrefix)
	} else {
		backend = cache.NewMemory(cfg.SessionTTL, 10*time.Minute)
		slog.Warn("VALKEY_HOST not set, sessions are kept in memory and lost on restart")
	}

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(backend, cfg.SessionTTL, secureCookies)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, cfg.AIProviders())
	if aiRegistry.HasCredential() {
		slog.Info("ai providers initialized",
			"active", aiRegistry.ActiveName(),
			"model", aiRegistry.ActiveModel(),
			"available", aiRegistry.Available(),
		)
	} else {
		slog.Warn("no credential for the active ai provider, suggestions and generation are disabled",
			"active", aiRegistry.ActiveName(),
			"available", aiRegistry.Available(),
		)
	}

	configurator := handlers.NewConfigurator(renderer, sessionStore, aiRegistry, highlight.New(highlight.DefaultStyle), logger)

	r := router.New(sessionStore, configurator, router.Options{
		Logger:    logger,
		Secure:    secureCookies,
		AILimiter: middleware.NewRateLimiter(cfg.AIRateLimit, time.Minute),
	})

	// WriteTimeout must outlast the slowest AI round trip.
	writeTimeout := 90 * time.Second
	if cfg.AITimeout+30*time.Second > writeTimeout {
		writeTimeout = cfg.AITimeout + 30*time.Second
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Generations can be slow; give them the AI timeout to finish.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AITimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
