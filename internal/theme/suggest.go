// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"wpforge/internal/ai"
)

// Client is the structured generation client both operations call.
// *ai.Registry satisfies it.
type Client interface {
	Generate(ctx context.Context, req *ai.Request) (string, error)
	HasCredential() bool
}

const suggestSystemInstruction = `You are a senior visual designer for WordPress themes.
Given a short creative brief, pick a cohesive color palette and font pairing.
- primaryColor, secondaryColor, backgroundColor and textColor are hex codes like #3b82f6.
- fontHeading and fontBody are CSS font-family values such as "Inter, sans-serif".
- layout is one of: classic, modern, grid.
Make sure text is readable on the background. Respond with JSON only.`

// SuggestionSchema is the response shape of a style suggestion: an object
// whose fields are all optional.
func SuggestionSchema() *ai.Schema {
	hex := func() *ai.Schema { return ai.String().Describe("Hex code") }
	font := func() *ai.Schema { return ai.String().Describe("Font family name") }

	return ai.Object(
		ai.Field("primaryColor", hex()),
		ai.Field("secondaryColor", hex()),
		ai.Field("backgroundColor", hex()),
		ai.Field("textColor", hex()),
		ai.Field("fontHeading", font()),
		ai.Field("fontBody", font()),
		ai.Field("layout", ai.Enum(string(LayoutClassic), string(LayoutModern), string(LayoutGrid))),
	)
}

// Suggester maps a free-text brief to a best-guess partial configuration.
// It never fails: every problem degrades to an empty Partial and is logged.
type Suggester struct {
	client Client
	model  string
	logger *slog.Logger
}

// NewSuggester creates a Suggester. An empty model uses the provider's
// default; a nil logger uses slog.Default().
func NewSuggester(client Client, model string, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{client: client, model: model, logger: logger}
}

// Suggest asks the provider for a palette, font pairing and layout.
// The caller is expected to reject blank prompts before calling.
func (s *Suggester) Suggest(ctx context.Context, prompt string) Partial {
	if s.client == nil || !s.client.HasCredential() {
		s.logger.Warn("style suggestion skipped: no AI credential configured")
		return Partial{}
	}

	text, err := s.client.Generate(ctx, &ai.Request{
		Model:             s.model,
		SystemInstruction: suggestSystemInstruction,
		UserMessage:       suggestUserMessage(prompt),
		Schema:            SuggestionSchema(),
		SchemaName:        "theme_suggestion",
	})
	if err != nil {
		s.logger.Error("style suggestion failed", "error", err)
		return Partial{}
	}

	p, err := parseSuggestion(text)
	if err != nil {
		s.logger.Error("style suggestion unreadable", "error", err, "response", truncate(text, 200))
		return Partial{}
	}
	if dropped := p.dropped; len(dropped) > 0 {
		s.logger.Warn("style suggestion fields dropped", "fields", dropped)
	}
	return p.Partial
}

func suggestUserMessage(prompt string) string {
	return fmt.Sprintf("Analyze this request: \"%s\". Suggest a color palette and font pairing suitable for a WordPress theme of this nature. Return JSON.", prompt)
}

type parsedSuggestion struct {
	Partial
	dropped []string
}

// parseSuggestion decodes each field on its own so one bad value does not
// discard the rest. Present fields always come out well-typed.
func parseSuggestion(text string) (parsedSuggestion, error) {
	var out parsedSuggestion

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return out, fmt.Errorf("decoding suggestion: %w", err)
	}
	if raw == nil {
		return out, fmt.Errorf("decoding suggestion: not a JSON object")
	}

	str := func(name string) (string, bool) {
		v, ok := raw[name]
		if !ok {
			return "", false
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			out.dropped = append(out.dropped, name)
			return "", false
		}
		return s, true
	}

	colors := []struct {
		name string
		dst  **string
	}{
		{"primaryColor", &out.PrimaryColor},
		{"secondaryColor", &out.SecondaryColor},
		{"backgroundColor", &out.BackgroundColor},
		{"textColor", &out.TextColor},
	}
	for _, c := range colors {
		v, ok := str(c.name)
		if !ok {
			continue
		}
		norm, ok := NormalizeColor(v)
		if !ok {
			out.dropped = append(out.dropped, c.name)
			continue
		}
		*c.dst = &norm
	}

	fonts := []struct {
		name string
		dst  **string
	}{
		{"fontHeading", &out.FontHeading},
		{"fontBody", &out.FontBody},
	}
	for _, f := range fonts {
		v, ok := str(f.name)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			out.dropped = append(out.dropped, f.name)
			continue
		}
		*f.dst = &v
	}

	if v, ok := str("layout"); ok {
		l := Layout(strings.ToLower(strings.TrimSpace(v)))
		if l.Valid() {
			out.Layout = &l
		} else {
			out.dropped = append(out.dropped, "layout")
		}
	}

	return out, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i != -1 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if i := strings.LastIndex(s, "```"); i != -1 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
