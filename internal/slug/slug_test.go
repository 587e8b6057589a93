// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Awesome Theme", "my-awesome-theme"},
		{"Acme Studio: Dark!", "acme-studio-dark"},
		{"  --padded--  ", "padded"},
		{"Twenty Twenty-Six", "twenty-twenty-six"},
		{"Café Noir", "caf-noir"},
		{"v2.0 beta", "v2-0-beta"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Generate(tt.in); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateIsStable(t *testing.T) {
	for _, in := range []string{"My Awesome Theme", "Acme -- Co", "a b c"} {
		once := Generate(in)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate(Generate(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestGenerateTruncates(t *testing.T) {
	got := Generate(strings.Repeat("word ", 40))
	if len(got) > maxLen {
		t.Errorf("len = %d, want <= %d", len(got), maxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug ends with hyphen: %q", got)
	}
}

func TestTheme(t *testing.T) {
	if got := Theme("Acme"); got != "acme" {
		t.Errorf("Theme(Acme) = %q", got)
	}
	if got := Theme("???"); got != Fallback {
		t.Errorf("Theme(???) = %q, want %q", got, Fallback)
	}
}
