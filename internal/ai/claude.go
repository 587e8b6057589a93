// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// claudeProvider implements the Provider interface using the Anthropic
// Messages API (POST /v1/messages). The response schema becomes the input
// schema of a single forced tool; the tool input is the structured output.
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
}

// newClaude creates a new Anthropic Claude provider.
func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	return &claudeProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.timeout()},
	}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate sends a message with a forced tool call and returns the tool
// input as JSON text.
func (p *claudeProvider) Generate(ctx context.Context, req *Request) (string, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	tool := claudeTool{
		Name:        req.schemaName(),
		Description: "Return the result in the required structure.",
		InputSchema: req.Schema,
	}
	if req.Schema.Description != "" {
		tool.Description = req.Schema.Description
	}

	body := claudeRequest{
		Model:      model,
		MaxTokens:  8192,
		System:     req.SystemInstruction,
		Messages:   []claudeMessage{{Role: "user", Content: req.UserMessage}},
		Tools:      []claudeTool{tool},
		ToolChoice: &claudeToolChoice{Type: "tool", Name: tool.Name},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("claude marshal: %w", err)
	}

	url := p.config.BaseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("claude request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.config.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("claude read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result claudeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("claude unmarshal: %w", err)
	}

	for _, block := range result.Content {
		if block.Type == "tool_use" && block.Name == tool.Name && len(block.Input) > 0 {
			return string(block.Input), nil
		}
	}

	// Fall back to a plain text block; the caller validates its shape.
	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("claude: no tool output in response")
}

// --- Anthropic Messages API types ---

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeTool struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	InputSchema *Schema `json:"input_schema"`
}

type claudeToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type claudeRequest struct {
	Model      string            `json:"model"`
	MaxTokens  int               `json:"max_tokens"`
	System     string            `json:"system,omitempty"`
	Messages   []claudeMessage   `json:"messages"`
	Tools      []claudeTool      `json:"tools"`
	ToolChoice *claudeToolChoice `json:"tool_choice,omitempty"`
}

type claudeContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
}
