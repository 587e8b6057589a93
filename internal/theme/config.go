// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme holds the WordPress theme configurator's domain: the visual
// configuration, AI-backed style suggestions, and AI-backed generation of
// the theme's source files.
package theme

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Layout selects how posts are arranged on the index page.
type Layout string

// Supported layouts.
const (
	LayoutClassic Layout = "classic"
	LayoutModern  Layout = "modern"
	LayoutGrid    Layout = "grid"
)

// Layouts lists every supported layout in display order.
var Layouts = []Layout{LayoutClassic, LayoutModern, LayoutGrid}

// Valid reports whether l is one of the supported layouts.
func (l Layout) Valid() bool {
	switch l {
	case LayoutClassic, LayoutModern, LayoutGrid:
		return true
	}
	return false
}

// Columns returns the number of post columns the layout uses on wide screens.
func (l Layout) Columns() int {
	switch l {
	case LayoutGrid:
		return 3
	case LayoutModern:
		return 2
	default:
		return 1
	}
}

// Config is the visual configuration of a theme. It lives for a single UI
// session: created with DefaultConfig, mutated by user edits or by merging
// a suggestion.
type Config struct {
	Name            string `json:"name" validate:"required,max=120"`
	Description     string `json:"description" validate:"max=2000"`
	PrimaryColor    string `json:"primaryColor" validate:"required,rrggbb"`
	SecondaryColor  string `json:"secondaryColor" validate:"required,rrggbb"`
	BackgroundColor string `json:"backgroundColor" validate:"required,rrggbb"`
	TextColor       string `json:"textColor" validate:"required,rrggbb"`
	FontHeading     string `json:"fontHeading" validate:"required,max=200"`
	FontBody        string `json:"fontBody" validate:"required,max=200"`
	BorderRadius    string `json:"borderRadius" validate:"required,csslength"`
	Layout          Layout `json:"layout" validate:"required,oneof=classic modern grid"`
}

// DefaultConfig returns the configuration a new session starts with.
func DefaultConfig() Config {
	return Config{
		Name:            "My Awesome Theme",
		Description:     "A customized WordPress theme generated with AI.",
		PrimaryColor:    "#3b82f6",
		SecondaryColor:  "#64748b",
		BackgroundColor: "#ffffff",
		TextColor:       "#0f172a",
		FontHeading:     "Inter, sans-serif",
		FontBody:        "Inter, sans-serif",
		BorderRadius:    "0.5rem",
		Layout:          LayoutModern,
	}
}

// FontChoices are the font stacks offered by the configurator controls.
var FontChoices = []struct {
	Label string
	Value string
}{
	{"Inter (Sans)", "Inter, sans-serif"},
	{"Times (Serif)", "'Times New Roman', serif"},
	{"Courier (Mono)", "'Courier New', monospace"},
	{"System UI", "system-ui, sans-serif"},
}

var (
	hexColorRe  = regexp.MustCompile(`^#[0-9a-f]{6}$`)
	cssLengthRe = regexp.MustCompile(`^(0|\d*\.?\d+(px|rem|em|%|vw|vh))$`)

	validate = newValidator()
)

// newValidator builds the validator with the configurator's custom tags
// and JSON field names in error messages.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("rrggbb", func(fl validator.FieldLevel) bool {
		return hexColorRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("csslength", func(fl validator.FieldLevel) bool {
		return cssLengthRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return v
}

// Validate checks the configuration invariants and returns an error that
// lists every offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid theme config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "rrggbb":
		return fe.Field() + " must be a #rrggbb hex color"
	case "csslength":
		return fe.Field() + " must be a CSS length such as 0.5rem or 8px"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "max":
		return fe.Field() + " is too long (max " + fe.Param() + " characters)"
	default:
		return fe.Field() + " is invalid"
	}
}

// Normalize cleans user-entered values: trims whitespace and canonicalises
// colors where possible. Values it cannot fix are left for Validate.
func (c Config) Normalize() Config {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.FontHeading = strings.TrimSpace(c.FontHeading)
	c.FontBody = strings.TrimSpace(c.FontBody)
	c.BorderRadius = strings.TrimSpace(c.BorderRadius)
	c.Layout = Layout(strings.ToLower(strings.TrimSpace(string(c.Layout))))

	for _, field := range []*string{&c.PrimaryColor, &c.SecondaryColor, &c.BackgroundColor, &c.TextColor} {
		if norm, ok := NormalizeColor(*field); ok {
			*field = norm
		}
	}
	return c
}

// NormalizeColor canonicalises a hex color to lower-case "#rrggbb".
// It accepts "#rgb", "rgb", "#rrggbb" and "rrggbb".
func NormalizeColor(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "#")

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return "", false
		}
	}
	return "#" + s, true
}

// Merge returns a copy of c with every field present in p applied.
// Absent fields leave the existing values untouched.
func (c Config) Merge(p Partial) Config {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.PrimaryColor, p.PrimaryColor)
	set(&c.SecondaryColor, p.SecondaryColor)
	set(&c.BackgroundColor, p.BackgroundColor)
	set(&c.TextColor, p.TextColor)
	set(&c.FontHeading, p.FontHeading)
	set(&c.FontBody, p.FontBody)
	if p.Layout != nil {
		c.Layout = *p.Layout
	}
	return c
}

// Partial is a configuration where every field is independently optional.
// It is what a style suggestion produces.
type Partial struct {
	PrimaryColor    *string `json:"primaryColor,omitempty"`
	SecondaryColor  *string `json:"secondaryColor,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
	FontHeading     *string `json:"fontHeading,omitempty"`
	FontBody        *string `json:"fontBody,omitempty"`
	Layout          *Layout `json:"layout,omitempty"`
}

// IsEmpty reports whether no field is present.
func (p Partial) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the JSON names of the present fields.
func (p Partial) Fields() []string {
	var names []string
	add := func(name string, present bool) {
		if present {
			names = append(names, name)
		}
	}
	add("primaryColor", p.PrimaryColor != nil)
	add("secondaryColor", p.SecondaryColor != nil)
	add("backgroundColor", p.BackgroundColor != nil)
	add("textColor", p.TextColor != nil)
	add("fontHeading", p.FontHeading != nil)
	add("fontBody", p.FontBody != nil)
	add("layout", p.Layout != nil)
	return names
}

// FallbackPrompt describes the configuration when the user gave no prompt.
func FallbackPrompt(c Config) string {
	return fmt.Sprintf("Create a %s theme named %s with primary color %s.",
		c.Layout, c.Name, c.PrimaryColor)
}
