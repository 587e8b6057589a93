// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"wpforge/internal/ai"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Valkey (Redis-compatible). An empty host keeps sessions in memory.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	SessionTTL     time.Duration

	// AI settings
	AIProvider  string // "gemini", "openai", "claude", "mistral"
	AITimeout   time.Duration
	AIRateLimit int // requests per minute per client IP on AI endpoints

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	ClaudeAPIKey  string
	ClaudeModel   string
	ClaudeBaseURL string

	MistralAPIKey  string
	MistralModel   string
	MistralBaseURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Malformed durations and integers are
// reported as errors.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider: envOrDefault("AI_PROVIDER", "gemini"),

		// API_KEY is the historical name of the Gemini credential.
		GeminiAPIKey:  envOrDefault("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		ClaudeAPIKey:  os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:   envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-6"),
		ClaudeBaseURL: os.Getenv("CLAUDE_BASE_URL"),

		MistralAPIKey:  os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL: os.Getenv("MISTRAL_BASE_URL"),
	}

	var err error
	if cfg.SessionTTL, err = durationOrDefault("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AITimeout, err = durationOrDefault("AI_TIMEOUT", ai.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.AIRateLimit, err = intOrDefault("AI_RATE_LIMIT", 20); err != nil {
		return nil, err
	}

	switch cfg.AIProvider {
	case "gemini", "openai", "claude", "mistral":
	default:
		return nil, fmt.Errorf("AI_PROVIDER must be one of gemini, openai, claude, mistral (got %q)", cfg.AIProvider)
	}

	return cfg, nil
}

// AIProviders returns per-provider settings for ai.NewRegistry.
func (c *Config) AIProviders() map[string]ai.ProviderConfig {
	return map[string]ai.ProviderConfig{
		"gemini":  {APIKey: c.GeminiAPIKey, Model: c.GeminiModel, BaseURL: c.GeminiBaseURL, Timeout: c.AITimeout},
		"openai":  {APIKey: c.OpenAIAPIKey, Model: c.OpenAIModel, BaseURL: c.OpenAIBaseURL, Timeout: c.AITimeout},
		"claude":  {APIKey: c.ClaudeAPIKey, Model: c.ClaudeModel, BaseURL: c.ClaudeBaseURL, Timeout: c.AITimeout},
		"mistral": {APIKey: c.MistralAPIKey, Model: c.MistralModel, BaseURL: c.MistralBaseURL, Timeout: c.AITimeout},
	}
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UseValkey reports whether sessions should be stored in Valkey.
func (c *Config) UseValkey() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 30s (got %q)", key, v)
	}
	return d, nil
}

func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer (got %q)", key, v)
	}
	return n, nil
}
