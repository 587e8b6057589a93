// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wpforge/internal/render"
	"wpforge/internal/slug"
	"wpforge/internal/theme"
)

// Files renders the code viewer for the current batch.
func (c *Configurator) Files(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}
	batch := cur.Workspace.Batch

	css, err := c.highlight.CSS()
	if err != nil {
		c.logger.Error("highlight stylesheet failed", "error", err)
	}

	data := map[string]any{"CSS": css}
	if batch.Len() > 0 {
		views := make([]render.FileView, 0, batch.Len())
		for i, f := range batch.Files {
			views = append(views, render.FileView{
				Filename: f.Filename,
				Language: f.Language,
				Anchor:   fmt.Sprintf("%d-%s", i, slug.Generate(f.Filename)),
				HTML:     c.highlightFile(f),
			})
		}
		data["Batch"] = batch
		data["Files"] = views
		data["Missing"] = theme.MissingFiles(batch.Files)
	}

	c.renderer.Page(w, r, "files", &render.PageData{
		Title:   "Theme Files",
		Section: "files",
		Data:    data,
	})
}

// highlightFile renders one file, falling back to escaped plain text.
func (c *Configurator) highlightFile(f theme.GeneratedFile) template.HTML {
	out, err := c.highlight.HTML(f.Filename, f.Language, f.Content)
	if err != nil {
		c.logger.Warn("highlight failed", "file", f.Filename, "error", err)
		return template.HTML("<pre>" + template.HTMLEscapeString(f.Content) + "</pre>") //nolint:gosec // escaped above
	}
	return out
}

// FileRaw serves one generated file as plain text. Filenames may contain
// slashes, so the route uses a wildcard.
func (c *Configurator) FileRaw(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "*")
	f, found := cur.Workspace.Batch.File(name)
	if !found {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(f.Content))
}

// FilesZip downloads the batch as a zip archive with every file under a
// directory named after the theme slug, ready for wp-content/themes.
func (c *Configurator) FilesZip(w http.ResponseWriter, r *http.Request) {
	cur, ok := c.workspace(w, r)
	if !ok {
		return
	}

	batch := cur.Workspace.Batch
	if batch.Len() == 0 {
		http.Error(w, "No generated files yet", http.StatusNotFound)
		return
	}

	dir := slug.Theme(cur.Workspace.Config.Name)
	payload, err := buildArchive(dir, batch.Files, batch.CreatedAt)
	if err != nil {
		c.logger.Error("theme archive failed", "error", err)
		http.Error(w, "Failed to build archive", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, dir))
	w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
	w.Write(payload)
}

// buildArchive zips files under dir. Unsafe names are skipped and a
// repeated name keeps its first occurrence.
func buildArchive(dir string, files []theme.GeneratedFile, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		name := archivePath(dir, f.Filename)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("zip create %s: %w", name, err)
		}
		if _, err := fw.Write([]byte(f.Content)); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}
