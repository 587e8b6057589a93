// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
	"time"
)

var allEnv = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD", "SESSION_TTL",
	"AI_PROVIDER", "AI_TIMEOUT", "AI_RATE_LIMIT", "API_KEY",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"CLAUDE_API_KEY", "CLAUDE_MODEL", "CLAUDE_BASE_URL",
	"MISTRAL_API_KEY", "MISTRAL_MODEL", "MISTRAL_BASE_URL",
}

// clearEnv blanks every variable Load reads. envOrDefault treats empty
// the same as unset, and t.Setenv restores the values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s: got %q, want %q", field, got, want)
		}
	}
	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("ValkeyHost", cfg.ValkeyHost, "")
	check("ValkeyPort", cfg.ValkeyPort, "6379")
	check("AIProvider", cfg.AIProvider, "gemini")
	check("GeminiModel", cfg.GeminiModel, "gemini-3-flash-preview")
	check("OpenAIModel", cfg.OpenAIModel, "gpt-4o-mini")
	check("ClaudeModel", cfg.ClaudeModel, "claude-sonnet-4-6")
	check("MistralModel", cfg.MistralModel, "mistral-large-latest")
	check("GeminiAPIKey", cfg.GeminiAPIKey, "")

	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL: got %v", cfg.SessionTTL)
	}
	if cfg.AITimeout != 60*time.Second {
		t.Errorf("AITimeout: got %v", cfg.AITimeout)
	}
	if cfg.AIRateLimit != 20 {
		t.Errorf("AIRateLimit: got %d", cfg.AIRateLimit)
	}
	if cfg.UseValkey() {
		t.Error("UseValkey should be false without VALKEY_HOST")
	}
	if !cfg.IsDev() {
		t.Error("IsDev should be true by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("VALKEY_HOST", "valkey")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("AI_RATE_LIMIT", "5")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
	if cfg.IsDev() {
		t.Error("IsDev should be false in production")
	}
	if !cfg.UseValkey() {
		t.Error("UseValkey should be true with VALKEY_HOST set")
	}
	if cfg.SessionTTL != 2*time.Hour || cfg.AITimeout != 15*time.Second || cfg.AIRateLimit != 5 {
		t.Errorf("parsed values: ttl=%v timeout=%v rate=%d", cfg.SessionTTL, cfg.AITimeout, cfg.AIRateLimit)
	}

	openai := cfg.AIProviders()["openai"]
	if openai.APIKey != "sk-test" || openai.BaseURL != "http://localhost:1234/v1" || openai.Timeout != 15*time.Second {
		t.Errorf("openai provider config: %+v", openai)
	}
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiAPIKey != "legacy-key" {
		t.Errorf("GeminiAPIKey: got %q, want legacy-key", cfg.GeminiAPIKey)
	}

	t.Setenv("GEMINI_API_KEY", "explicit")
	cfg, _ = Load()
	if cfg.GeminiAPIKey != "explicit" {
		t.Errorf("GEMINI_API_KEY should win over API_KEY, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"SESSION_TTL", "forever", "SESSION_TTL"},
		{"AI_TIMEOUT", "-5s", "AI_TIMEOUT"},
		{"AI_RATE_LIMIT", "many", "AI_RATE_LIMIT"},
		{"AI_RATE_LIMIT", "0", "AI_RATE_LIMIT"},
		{"AI_PROVIDER", "llama", "AI_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestAIProviders(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLAUDE_API_KEY", "ck")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	providers := cfg.AIProviders()
	if len(providers) != 4 {
		t.Fatalf("providers: got %d, want 4", len(providers))
	}
	if providers["claude"].APIKey != "ck" || providers["claude"].Model != "claude-sonnet-4-6" {
		t.Errorf("claude: %+v", providers["claude"])
	}
	if providers["gemini"].APIKey != "" {
		t.Errorf("gemini should have no key: %+v", providers["gemini"])
	}
}
