// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"path"
	"strings"
	"unicode/utf8"
)

// Validation limits for request inputs.
const (
	maxPromptLen = 4_000
	maxBodyBytes = 1 << 20
)

// validatePrompt checks a prompt and returns the first error found. An
// empty result means the prompt is acceptable. required rejects blanks.
func validatePrompt(prompt string, required bool) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && required {
		return "Please describe the theme you want first."
	}
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "Prompt is too long (max 4,000 characters)."
	}
	return ""
}

// archivePath maps a generated filename to its path inside the theme
// archive. It returns "" for names that would escape the theme directory.
func archivePath(dir, filename string) string {
	name := strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/")
	if name == "" || strings.HasPrefix(name, "/") {
		return ""
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return ""
	}
	return dir + "/" + clean
}
