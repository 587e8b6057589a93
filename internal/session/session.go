// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps each browser's configurator workspace (theme
// config, last prompt and generated files) in a TTL-bound cache.Store,
// identified by a cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wpforge/internal/cache"
	"wpforge/internal/theme"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "wpf_session"

	// DefaultTTL is how long an idle workspace survives.
	DefaultTTL = 24 * time.Hour

	// KeyPrefix namespaces workspace keys in Valkey.
	KeyPrefix = "workspace:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Workspace is one browser's configurator state.
type Workspace struct {
	Config    theme.Config `json:"config"`
	Prompt    string       `json:"prompt"`
	Batch     *theme.Batch `json:"batch,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewWorkspace returns a workspace holding the default configuration.
func NewWorkspace() *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		Config:    theme.DefaultConfig(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store manages workspace lifecycle on top of a cache.Store.
type Store struct {
	backend cache.Store
	ttl     time.Duration
	secure  bool
}

// NewStore creates a workspace store. A zero ttl means DefaultTTL. secure
// marks the cookie Secure for TLS deployments.
func NewStore(backend cache.Store, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, ttl: ttl, secure: secure}
}

// TTL returns the workspace lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a fresh workspace and sets the session cookie.
// Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, ws *Workspace) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	if err := s.Save(ctx, id, ws); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get returns the workspace named by the request cookie. It returns
// ("", nil, nil) when there is no cookie or the workspace expired.
func (s *Store) Get(ctx context.Context, r *http.Request) (string, *Workspace, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", nil, nil
	}

	payload, err := s.backend.Get(ctx, cookie.Value)
	if errors.Is(err, cache.ErrMiss) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("session get: %w", err)
	}

	var ws Workspace
	if err := json.Unmarshal(payload, &ws); err != nil {
		return "", nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return cookie.Value, &ws, nil
}

// Save writes the workspace under id and resets its TTL.
func (s *Store) Save(ctx context.Context, id string, ws *Workspace) error {
	ws.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.backend.Set(ctx, id, payload, s.ttl); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Destroy removes the workspace and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if err := s.backend.Delete(ctx, cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
