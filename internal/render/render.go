// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the configurator.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"wpforge/internal/markdown"
	"wpforge/internal/middleware"
	"wpforge/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active nav section ("configure", "files")
	CSRFToken string         // CSRF token for forms and fetch headers
	DevMode   bool           // Shows development hints in the footer
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
	Status    int            // Response status; zero means 200
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// FileView is one highlighted generated file on the files page.
type FileView struct {
	Filename string
	Language string
	Anchor   string        // element id suffix
	HTML     template.HTML // chroma output
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	devMode   bool
}

// fontUnsafe matches characters that have no business in a font-family
// list and could break out of a CSS declaration.
var fontUnsafe = regexp.MustCompile(`[^A-Za-z0-9 ,'"\-_.]`)

// funcMap is shared by every template.
var funcMap = template.FuncMap{
	"navClass": func(current, target string) string {
		if current == target {
			return "nav-link active"
		}
		return "nav-link"
	},
	"markdown": markdown.Safe,
	// previewStyle turns a validated config into CSS custom properties
	// for the live preview.
	"previewStyle": PreviewStyle,
	"columns": func(l theme.Layout) int {
		return l.Columns()
	},
	"knownFont": func(value string) bool {
		for _, f := range theme.FontChoices {
			if f.Value == value {
				return true
			}
		}
		return false
	},
	"year": func() int { return time.Now().Year() },
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

// PreviewStyle renders the preview's CSS custom properties. Colors and the
// radius must already be validated; font names are filtered here.
func PreviewStyle(c theme.Config) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "--wp-primary:%s;", c.PrimaryColor)
	fmt.Fprintf(&b, "--wp-secondary:%s;", c.SecondaryColor)
	fmt.Fprintf(&b, "--wp-bg:%s;", c.BackgroundColor)
	fmt.Fprintf(&b, "--wp-text:%s;", c.TextColor)
	fmt.Fprintf(&b, "--wp-radius:%s;", c.BorderRadius)
	fmt.Fprintf(&b, "--wp-font-heading:%s;", fontUnsafe.ReplaceAllString(c.FontHeading, ""))
	fmt.Fprintf(&b, "--wp-font-body:%s;", fontUnsafe.ReplaceAllString(c.FontBody, ""))
	fmt.Fprintf(&b, "--wp-columns:%d", c.Layout.Columns())
	return template.CSS(b.String()) //nolint:gosec // inputs validated or filtered above
}

// pages lists the page templates. Each is parsed together with base.html
// and must define a "content" block.
var pages = []string{"index", "preview", "files"}

// New parses every page template from the embedded filesystem.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template, len(pages)),
		devMode:   devMode,
	}

	for _, name := range pages {
		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/preview_block.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Page renders a full page or, for HTMX requests, only its "content" block.
// Output is buffered so a template error never leaves a half-written page.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFToken(r)
	data.DevMode = rn.devMode

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.Status != 0 {
		w.WriteHeader(data.Status)
	}
	_, _ = buf.WriteTo(w)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
