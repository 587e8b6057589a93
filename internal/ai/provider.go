// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides structured (schema-constrained) generation on top of
// multiple LLM providers (Gemini, OpenAI, Claude, Mistral). Each provider
// implements the Provider interface, and the Registry selects the active
// one by name.
package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultTimeout bounds a single provider round trip when the config does
// not set one.
const DefaultTimeout = 60 * time.Second

// Request is one structured generation call.
type Request struct {
	// Model overrides the provider's default model when non-empty.
	Model string

	// SystemInstruction steers overall behaviour. Optional.
	SystemInstruction string

	// UserMessage is the task-specific text.
	UserMessage string

	// Schema describes the JSON shape the response must have.
	Schema *Schema

	// SchemaName labels the schema for providers that require a name
	// (OpenAI json_schema, Claude tool name). Defaults to "response".
	SchemaName string
}

func (r *Request) schemaName() string {
	if r.SchemaName == "" {
		return "response"
	}
	return r.SchemaName
}

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends the request and returns the raw response text, which
	// is expected (not guaranteed) to be JSON matching req.Schema.
	Generate(ctx context.Context, req *Request) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func (c ProviderConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Registry manages available AI providers and selects the active one.
// A provider is only registered when its API key is set, so an active name
// without a registered provider means the credential is missing.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	models    map[string]string
	active    string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		models:    make(map[string]string),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "mistral":
			r.providers[name] = newMistral(cfg)
		default:
			continue
		}
		r.models[name] = cfg.Model
	}

	return r
}

// Generate runs a structured generation on the active provider.
//
// It fails with ErrCredentialMissing, without any network I/O, when the
// active provider has no credential. Every other failure (transport,
// provider status, empty text) is wrapped in a *GenerationError. The call
// is never retried.
func (r *Registry) Generate(ctx context.Context, req *Request) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}

	if req.UserMessage == "" {
		return "", &GenerationError{Provider: p.Name(), Err: fmt.Errorf("empty user message")}
	}
	if req.Schema == nil {
		return "", &GenerationError{Provider: p.Name(), Err: fmt.Errorf("missing response schema")}
	}

	text, err := p.Generate(ctx, req)
	if err != nil {
		return "", &GenerationError{Provider: p.Name(), Err: err}
	}
	if text == "" {
		return "", &GenerationError{Provider: p.Name(), Err: ErrEmptyResponse}
	}
	return text, nil
}

// HasCredential reports whether the active provider is configured.
func (r *Registry) HasCredential() bool {
	_, err := r.Active()
	return err == nil
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("%w: no provider configured for %q", ErrCredentialMissing, r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// ActiveModel returns the default model of the active provider, or an
// empty string when it is not configured.
func (r *Registry) ActiveModel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.models[r.active]
}

// Available returns the sorted names of all providers that have API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry. This allows injecting
// custom providers at runtime (e.g. for testing or plugin-based providers).
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}
