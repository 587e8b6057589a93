// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns theme names into WordPress-safe identifiers: the theme
// directory name inside the zip download and the text domain.
package slug

import (
	"strings"
	"unicode"
)

// Fallback is used when a name has no usable characters.
const Fallback = "wp-theme"

// maxLen keeps directory names and text domains comfortably short.
const maxLen = 64

// Generate lower-cases s and joins its ASCII letter and digit runs with
// single hyphens. Everything else is a separator.
// Example: "Acme Studio: Dark!" -> "acme-studio-dark"
func Generate(s string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	out := b.String()
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

// Theme returns Generate(name), or Fallback when that is empty.
func Theme(name string) string {
	if s := Generate(name); s != "" {
		return s
	}
	return Fallback
}
