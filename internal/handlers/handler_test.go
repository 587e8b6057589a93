// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// a scripted AI provider, an in-memory session store and a cookie-carrying
// client.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"wpforge/internal/ai"
	"wpforge/internal/cache"
	"wpforge/internal/middleware"
	"wpforge/internal/render"
	"wpforge/internal/session"
	"wpforge/internal/theme"
)

// mockAIProvider implements ai.Provider and answers by schema name.
type mockAIProvider struct {
	responses map[string]string
	err       error

	mu    sync.Mutex
	calls []*ai.Request
}

func (m *mockAIProvider) Name() string { return "mock" }

func (m *mockAIProvider) Generate(_ context.Context, req *ai.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return "", m.err
	}
	return m.responses[req.SchemaName], nil
}

func (m *mockAIProvider) lastRequest() *ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// testEnv is a configurator mounted on a router with the workspace
// middleware, backed by process memory.
type testEnv struct {
	handler  http.Handler
	store    *session.Store
	registry *ai.Registry
	provider *mockAIProvider
}

// newTestEnv builds the environment. A nil provider leaves the active
// provider without a credential.
func newTestEnv(t *testing.T, provider *mockAIProvider) *testEnv {
	t.Helper()

	renderer, err := render.New(false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	store := session.NewStore(cache.NewMemory(time.Hour, time.Minute), time.Hour, false)

	registry := ai.NewRegistry("mock", nil)
	if provider != nil {
		registry.Register("mock", provider)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewConfigurator(renderer, store, registry, nil, logger)

	r := chi.NewRouter()
	r.Use(middleware.Workspace(store))
	r.Get("/", c.Index)
	r.Get("/preview", c.Preview)
	r.Post("/config", c.ConfigSubmit)
	r.Post("/config/reset", c.ConfigReset)
	r.Get("/files", c.Files)
	r.Get("/files.zip", c.FilesZip)
	r.Get("/files/*", c.FileRaw)
	r.Get("/api/config", c.ConfigGet)
	r.Put("/api/config", c.ConfigPut)
	r.Post("/api/suggest", c.Suggest)
	r.Post("/api/generate", c.Generate)
	r.Get("/api/providers", c.Providers)
	r.Post("/api/provider", c.SetProvider)

	return &testEnv{handler: r, store: store, registry: registry, provider: provider}
}

// client replays the session cookie across requests.
type client struct {
	t      *testing.T
	env    *testEnv
	cookie *http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, env: e}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.env.handler.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) postJSON(method, target string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		c.t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) postForm(target, form string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

// workspace loads the client's stored workspace directly from the store.
func (c *client) workspace() *session.Workspace {
	c.t.Helper()
	if c.cookie == nil {
		c.t.Fatal("client has no session cookie")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c.cookie)
	_, ws, err := c.env.store.Get(context.Background(), req)
	if err != nil || ws == nil {
		c.t.Fatalf("load workspace: ws=%v err=%v", ws, err)
	}
	return ws
}

func httptestRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func filesResponse(files ...theme.GeneratedFile) string {
	payload, _ := json.Marshal(map[string]any{"files": files})
	return string(payload)
}

var errProviderDown = errors.New("provider returned 500")
