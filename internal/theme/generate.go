// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"wpforge/internal/ai"
)

// ErrSchemaMismatch means the response was JSON but not in the declared
// shape. It is always reported together with ai.ErrGenerationFailed.
var ErrSchemaMismatch = errors.New("response does not match schema")

// RequiredFiles are the files every generated theme must contain.
var RequiredFiles = []string{"style.css", "functions.php", "index.php", "header.php", "footer.php"}

// FilesSchema is the response shape of a file generation.
func FilesSchema() *ai.Schema {
	return ai.Object(
		ai.Field("files", ai.Array(ai.Object(
			ai.Field("filename", ai.String()).Required(),
			ai.Field("content", ai.String()).Required(),
			ai.Field("language", ai.String().Describe("e.g., php, css")).Required(),
		))).Required(),
	)
}

// Generator turns a brief and a configuration into theme source files.
// Unlike Suggester it reports every failure to the caller.
type Generator struct {
	client Client
	model  string
	logger *slog.Logger
}

// NewGenerator creates a Generator. An empty model uses the provider's
// default; a nil logger uses slog.Default().
func NewGenerator(client Client, model string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, model: model, logger: logger}
}

// Generate asks the provider for the theme files. Files come back in
// provider order, unmodified. A blank prompt is the caller's problem; see
// FallbackPrompt.
func (g *Generator) Generate(ctx context.Context, prompt string, cfg Config) ([]GeneratedFile, error) {
	if g.client == nil || !g.client.HasCredential() {
		return nil, fmt.Errorf("theme files: %w", ai.ErrCredentialMissing)
	}

	text, err := g.client.Generate(ctx, &ai.Request{
		Model:             g.model,
		SystemInstruction: generateSystemInstruction(cfg),
		UserMessage:       generateUserMessage(prompt),
		Schema:            FilesSchema(),
		SchemaName:        "theme_files",
	})
	if err != nil {
		return nil, fmt.Errorf("theme files: %w", err)
	}

	files, err := parseFiles(text)
	if err != nil {
		return nil, err
	}

	if dups := duplicateNames(files); len(dups) > 0 {
		g.logger.Warn("generated theme has duplicate filenames", "files", dups)
	}
	g.logger.Info("theme files generated", "count", len(files))
	return files, nil
}

func generateSystemInstruction(cfg Config) string {
	var b strings.Builder
	b.WriteString("You are an expert WordPress theme developer.\n")
	b.WriteString("Generate a complete, working classic WordPress theme based on the user's description and these settings:\n")
	fmt.Fprintf(&b, "- Theme Name: %s\n", cfg.Name)
	fmt.Fprintf(&b, "- Primary Color: %s\n", cfg.PrimaryColor)
	fmt.Fprintf(&b, "- Font: %s\n", cfg.FontBody)
	fmt.Fprintf(&b, "- Layout: %s\n\n", cfg.Layout)
	b.WriteString("You must generate exactly these files:\n")
	b.WriteString("1. style.css (with the standard WordPress theme header comments)\n")
	b.WriteString("2. functions.php (enqueue scripts and styles, register menus, add theme support)\n")
	b.WriteString("3. index.php (the main loop)\n")
	b.WriteString("4. header.php\n")
	b.WriteString("5. footer.php\n\n")
	b.WriteString("Ensure the code is modern, secure, and functional.")
	return b.String()
}

func generateUserMessage(prompt string) string {
	return fmt.Sprintf("User Prompt: %s. \n\n Generate the WordPress theme files now.", prompt)
}

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ai.ErrGenerationFailed, ErrSchemaMismatch, fmt.Sprintf(format, args...))
}

// parseFiles decodes and checks the provider response. A response with no
// "files" member yields an empty list; anything else off-shape is an error.
func parseFiles(text string) ([]GeneratedFile, error) {
	body := []byte(stripCodeFence(text))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: decoding theme files: %w", ai.ErrGenerationFailed, err)
	}
	if top == nil {
		return nil, mismatch("top level is not an object")
	}

	raw, ok := top["files"]
	if !ok || string(raw) == "null" {
		return []GeneratedFile{}, nil
	}

	var instance any
	if err := json.Unmarshal(body, &instance); err != nil {
		return nil, fmt.Errorf("%w: decoding theme files: %w", ai.ErrGenerationFailed, err)
	}
	if err := FilesSchema().Validate(instance); err != nil {
		return nil, mismatch("%v", err)
	}

	var files []GeneratedFile
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, mismatch("files: %v", err)
	}
	for i, f := range files {
		if strings.TrimSpace(f.Filename) == "" {
			return nil, mismatch("files[%d]: empty filename", i)
		}
		if f.Content == "" {
			return nil, mismatch("files[%d] (%s): empty content", i, f.Filename)
		}
	}
	if files == nil {
		files = []GeneratedFile{}
	}
	return files, nil
}

func duplicateNames(files []GeneratedFile) []string {
	seen := make(map[string]int, len(files))
	var dups []string
	for _, f := range files {
		seen[f.Filename]++
		if seen[f.Filename] == 2 {
			dups = append(dups, f.Filename)
		}
	}
	return dups
}

// MissingFiles lists the RequiredFiles absent from files.
func MissingFiles(files []GeneratedFile) []string {
	have := make(map[string]bool, len(files))
	for _, f := range files {
		have[f.Filename] = true
	}
	var missing []string
	for _, name := range RequiredFiles {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
