// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web provides the embedded static assets (CSS, JS) for the
// configurator UI, served at /static/.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:static
var StaticFS embed.FS

// Static returns a handler serving the embedded static/ tree. Mount it
// with http.StripPrefix("/static/", ...).
func Static() http.Handler {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// static/ is embedded at build time, so Sub cannot fail.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
