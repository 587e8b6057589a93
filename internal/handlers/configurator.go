// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the theme configurator.
// Handlers receive their dependencies through the Configurator struct and
// keep all per-browser state in the session workspace.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"wpforge/internal/ai"
	"wpforge/internal/highlight"
	"wpforge/internal/middleware"
	"wpforge/internal/render"
	"wpforge/internal/session"
	"wpforge/internal/theme"
)

// Configurator groups the configurator's page and API handlers.
type Configurator struct {
	renderer  *render.Renderer
	sessions  *session.Store
	registry  *ai.Registry
	suggester *theme.Suggester
	generator *theme.Generator
	highlight *highlight.Highlighter
	logger    *slog.Logger
}

// NewConfigurator creates the handler group. The registry serves both the
// style suggester and the file generator with the active provider's model.
func NewConfigurator(renderer *render.Renderer, sessions *session.Store, registry *ai.Registry, hl *highlight.Highlighter, logger *slog.Logger) *Configurator {
	if logger == nil {
		logger = slog.Default()
	}
	if hl == nil {
		hl = highlight.New(highlight.DefaultStyle)
	}
	return &Configurator{
		renderer:  renderer,
		sessions:  sessions,
		registry:  registry,
		suggester: theme.NewSuggester(registry, "", logger),
		generator: theme.NewGenerator(registry, "", logger),
		highlight: hl,
		logger:    logger,
	}
}

// --- Pages ---

// Index renders the configurator: controls, prompt box and live preview.
func (c *Configurator) Index(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}
	c.renderIndex(w, r, cur.Workspace, &render.PageData{})
}

// Preview renders the live preview for the current config.
func (c *Configurator) Preview(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}
	c.renderer.Page(w, r, "preview", &render.PageData{
		Title:   "Preview",
		Section: "configure",
		Data:    map[string]any{"Config": cur.Workspace.Config},
	})
}

// ConfigSubmit replaces the config from the controls form. HTMX requests
// get the refreshed preview back, plain form posts are redirected.
func (c *Configurator) ConfigSubmit(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	cfg := configFromForm(cur.Workspace.Config, r)
	if err := cfg.Validate(); err != nil {
		if isHTMX(r) {
			// Keep the last valid preview on screen.
			w.Header().Set("HX-Reswap", "none")
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		c.renderIndex(w, r, cur.Workspace, &render.PageData{
			Status:  http.StatusUnprocessableEntity,
			Flashes: []render.Flash{{Type: "error", Message: err.Error()}},
		})
		return
	}

	cur.Workspace.Config = cfg
	if !c.save(w, r, cur) {
		return
	}

	if isHTMX(r) {
		c.renderer.Page(w, r, "preview", &render.PageData{Data: map[string]any{"Config": cfg}})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ConfigReset restores the default config. The generated files are kept.
func (c *Configurator) ConfigReset(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}

	cur.Workspace.Config = theme.DefaultConfig()
	if !c.save(w, r, cur) {
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// --- JSON API ---

// ConfigGet returns the current config.
func (c *Configurator) ConfigGet(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cur.Workspace.Config)
}

// ConfigPut replaces the config from a JSON body. Omitted fields keep
// their current values.
func (c *Configurator) ConfigPut(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}

	cfg := cur.Workspace.Config
	if err := readJSON(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	cur.Workspace.Config = cfg
	if !c.save(w, r, cur) {
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type suggestResponse struct {
	Config  theme.Config `json:"config"`
	Applied []string     `json:"applied"`
}

// Suggest asks the AI for a palette, fonts and layout matching the prompt
// and merges whatever came back into the config. A failed suggestion is
// not an error for the caller: it simply applies nothing.
func (c *Configurator) Suggest(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}

	var req promptRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if msg := validatePrompt(req.Prompt, true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	prompt := strings.TrimSpace(req.Prompt)

	partial := c.suggester.Suggest(r.Context(), prompt)
	applied := partial.Fields()

	merged := cur.Workspace.Config.Merge(partial)
	if err := merged.Validate(); err != nil {
		c.logger.Warn("suggested style rejected", "error", err)
		merged, applied = cur.Workspace.Config, nil
	}
	if applied == nil {
		applied = []string{}
	}

	cur.Workspace.Config = merged
	cur.Workspace.Prompt = prompt
	if !c.save(w, r, cur) {
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{Config: merged, Applied: applied})
}

// Generate produces the theme files for the prompt and the current config
// and stores them as the workspace's batch. A blank prompt is replaced by
// a description of the config.
func (c *Configurator) Generate(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}

	var req promptRequest
	// An empty body is a blank prompt.
	if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if msg := validatePrompt(req.Prompt, false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	cfg := cur.Workspace.Config
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = theme.FallbackPrompt(cfg)
	} else {
		cur.Workspace.Prompt = prompt
	}

	files, err := c.generator.Generate(r.Context(), prompt, cfg)
	if err != nil {
		if errors.Is(err, ai.ErrCredentialMissing) {
			writeError(w, http.StatusServiceUnavailable, "No AI provider is configured. Set an API key and try again.")
			return
		}
		c.logger.Error("theme generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to generate theme. Please check your API key and try again.")
		return
	}

	batch := theme.NewBatch(prompt, files)
	cur.Workspace.Batch = batch
	if !c.save(w, r, cur) {
		return
	}

	c.logger.Info("theme generated", "batch", batch.ID, "files", batch.Len())
	writeJSON(w, http.StatusOK, batch)
}

type providersResponse struct {
	Active     string   `json:"active"`
	Model      string   `json:"model"`
	Configured bool     `json:"configured"`
	Available  []string `json:"available"`
}

// Providers lists the providers that have a credential and the active one.
func (c *Configurator) Providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.providers())
}

// SetProvider switches the active AI provider at runtime. The switch is
// process-wide, not per session.
func (c *Configurator) SetProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	name := strings.TrimSpace(req.Provider)
	if name == "" {
		writeError(w, http.StatusBadRequest, "No provider specified.")
		return
	}

	if err := c.registry.SetActive(name); err != nil {
		c.logger.Warn("failed to switch AI provider", "provider", name, "error", err)
		writeError(w, http.StatusBadRequest, "Provider "+name+" is not available (no API key configured).")
		return
	}

	c.logger.Info("ai provider switched", "provider", name)
	writeJSON(w, http.StatusOK, c.providers())
}

func (c *Configurator) providers() providersResponse {
	available := c.registry.Available()
	if available == nil {
		available = []string{}
	}
	return providersResponse{
		Active:     c.registry.ActiveName(),
		Model:      c.registry.ActiveModel(),
		Configured: c.registry.HasCredential(),
		Available:  available,
	}
}

// --- Helpers ---

func (c *Configurator) renderIndex(w http.ResponseWriter, r *http.Request, ws *session.Workspace, page *render.PageData) {
	page.Title = "Configure"
	page.Section = "configure"
	page.Data = map[string]any{
		"Config":        ws.Config,
		"Prompt":        ws.Prompt,
		"HasCredential": c.registry.HasCredential(),
		"Provider":      c.registry.ActiveName(),
		"Model":         c.registry.ActiveModel(),
		"Layouts":       theme.Layouts,
		"Fonts":         theme.FontChoices,
	}
	c.renderer.Page(w, r, "index", page)
}

// workspace returns the request's workspace. It answers 500 itself when
// the Workspace middleware did not run.
func (c *Configurator) workspace(w http.ResponseWriter, r *http.Request) (*middleware.Current, bool) {
	cur := middleware.WorkspaceFromCtx(r.Context())
	if cur == nil || cur.Workspace == nil {
		c.logger.Error("workspace missing from request context", "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return cur, true
}

// save writes the workspace back to the session store.
func (c *Configurator) save(w http.ResponseWriter, r *http.Request, cur *middleware.Current) bool {
	if err := c.sessions.Save(r.Context(), cur.ID, cur.Workspace); err != nil {
		c.logger.Error("workspace save failed", "error", err)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusServiceUnavailable, "Session storage unavailable.")
		} else {
			http.Error(w, "Session storage unavailable", http.StatusServiceUnavailable)
		}
		return false
	}
	return true
}

// configFromForm overlays the submitted form fields on base. Fields absent
// from the form keep their current values.
func configFromForm(base theme.Config, r *http.Request) theme.Config {
	cfg := base
	set := func(key string, dst *string) {
		if _, ok := r.PostForm[key]; ok {
			*dst = strings.TrimSpace(r.PostForm.Get(key))
		}
	}
	set("name", &cfg.Name)
	set("description", &cfg.Description)
	set("primaryColor", &cfg.PrimaryColor)
	set("secondaryColor", &cfg.SecondaryColor)
	set("backgroundColor", &cfg.BackgroundColor)
	set("textColor", &cfg.TextColor)
	set("fontHeading", &cfg.FontHeading)
	set("fontBody", &cfg.FontBody)
	set("borderRadius", &cfg.BorderRadius)
	if _, ok := r.PostForm["layout"]; ok {
		cfg.Layout = theme.Layout(strings.TrimSpace(r.PostForm.Get("layout")))
	}
	return cfg.Normalize()
}

// readJSON decodes a size-limited JSON request body into dst.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// isHTMX returns true if the request was made by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
