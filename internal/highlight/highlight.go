// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package highlight renders generated theme files as syntax-highlighted
// HTML for the code viewer.
package highlight

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle matches the Markdown renderer's code blocks.
const DefaultStyle = "monokai"

// Highlighter formats source with CSS classes, so the stylesheet from CSS
// is emitted once per page rather than inline on every token.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a Highlighter for the named chroma style. Unknown styles fall
// back to chroma's default.
func New(style string) *Highlighter {
	return &Highlighter{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithLineNumbers(true),
			chromahtml.TabWidth(4),
		),
	}
}

// Lexer picks a lexer from the advisory language tag first, then from the
// filename, and finally falls back to plain text.
func Lexer(filename, language string) chroma.Lexer {
	var l chroma.Lexer
	if language = strings.TrimSpace(strings.ToLower(language)); language != "" {
		l = lexers.Get(language)
	}
	if l == nil && filename != "" {
		l = lexers.Match(filename)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// HTML renders source as highlighted HTML.
func (h *Highlighter) HTML(filename, language, source string) (template.HTML, error) {
	it, err := Lexer(filename, language).Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("highlight %s: tokenise: %w", filename, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", fmt.Errorf("highlight %s: format: %w", filename, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // chroma escapes token text
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *Highlighter) CSS() (template.CSS, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("highlight css: %w", err)
	}
	return template.CSS(buf.String()), nil //nolint:gosec // generated by chroma
}
