// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"wpforge/internal/ai"
)

func TestGenerateSingleFile(t *testing.T) {
	client := &fakeClient{response: `{"files":[{"filename":"style.css","content":"/* Theme Name: Acme */","language":"css"}]}`}
	g := NewGenerator(client, "", discardLogger())

	files, err := g.Generate(context.Background(), "a bakery", DefaultConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []GeneratedFile{{Filename: "style.css", Content: "/* Theme Name: Acme */", Language: "css"}}
	if len(files) != 1 || files[0] != want[0] {
		t.Errorf("files: got %+v, want %+v", files, want)
	}
}

func TestGeneratePreservesOrderAndCount(t *testing.T) {
	names := []string{"footer.php", "style.css", "index.php", "header.php", "functions.php", "page.php"}

	type item struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
		Language string `json:"language"`
	}
	var items []item
	for i, n := range names {
		items = append(items, item{n, fmt.Sprintf("content %d", i), "php"})
	}
	body, _ := json.Marshal(map[string]any{"files": items})

	g := NewGenerator(&fakeClient{response: string(body)}, "", discardLogger())
	files, err := g.Generate(context.Background(), "x", DefaultConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(files) != len(names) {
		t.Fatalf("len: got %d, want %d", len(files), len(names))
	}
	for i, f := range files {
		if f.Filename != names[i] {
			t.Errorf("files[%d]: got %q, want %q", i, f.Filename, names[i])
		}
		if f.Content != fmt.Sprintf("content %d", i) {
			t.Errorf("files[%d] content modified: %q", i, f.Content)
		}
	}
}

func TestGenerateRequest(t *testing.T) {
	client := &fakeClient{response: `{"files":[]}`}
	cfg := DefaultConfig()
	cfg.Name = "Acme"
	cfg.PrimaryColor = "#ff5500"
	cfg.FontBody = "Lora, serif"
	cfg.Layout = LayoutGrid

	if _, err := NewGenerator(client, "gemini-3-flash-preview", discardLogger()).Generate(context.Background(), "a bakery", cfg); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	req := client.lastRequest()
	if req.UserMessage != "User Prompt: a bakery. \n\n Generate the WordPress theme files now." {
		t.Errorf("UserMessage: got %q", req.UserMessage)
	}
	if req.Model != "gemini-3-flash-preview" {
		t.Errorf("Model: got %q", req.Model)
	}
	for _, want := range []string{"Acme", "#ff5500", "Lora, serif", "grid", "style.css", "functions.php", "index.php", "header.php", "footer.php"} {
		if !strings.Contains(req.SystemInstruction, want) {
			t.Errorf("system instruction should mention %q", want)
		}
	}
	if names := req.Schema.RequiredNames(); len(names) != 1 || names[0] != "files" {
		t.Errorf("schema required: got %v, want [files]", names)
	}
}

func TestGenerateFallbackPromptScenario(t *testing.T) {
	client := &fakeClient{response: `{"files":[]}`}
	cfg := DefaultConfig()
	cfg.Name = "Acme"

	prompt := FallbackPrompt(cfg)
	if _, err := NewGenerator(client, "", discardLogger()).Generate(context.Background(), prompt, cfg); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := "User Prompt: Create a modern theme named Acme with primary color #3b82f6.. \n\n Generate the WordPress theme files now."
	if got := client.lastRequest().UserMessage; got != want {
		t.Errorf("UserMessage:\n got %q\nwant %q", got, want)
	}
}

func TestGenerateNoCredential(t *testing.T) {
	client := &fakeClient{noCredential: true, response: `{"files":[]}`}

	_, err := NewGenerator(client, "", discardLogger()).Generate(context.Background(), "x", DefaultConfig())
	if !errors.Is(err, ai.ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
	if client.callCount() != 0 {
		t.Errorf("client must not be called without a credential, got %d calls", client.callCount())
	}
}

func TestGenerateClientErrorPropagates(t *testing.T) {
	cause := errors.New("upstream 500")
	client := &fakeClient{err: &ai.GenerationError{Provider: "test", Err: cause}}

	_, err := NewGenerator(client, "", discardLogger()).Generate(context.Background(), "x", DefaultConfig())
	if !errors.Is(err, ai.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause should be preserved: %v", err)
	}
}

func TestParseFiles(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantLen      int
		wantErr      bool
		wantMismatch bool
	}{
		{"files absent", `{}`, 0, false, false},
		{"files null", `{"files":null}`, 0, false, false},
		{"files empty", `{"files":[]}`, 0, false, false},
		{"code fence tolerated", "```json\n{\"files\":[{\"filename\":\"a.css\",\"content\":\"x\",\"language\":\"css\"}]}\n```", 1, false, false},
		{"not json", `{"files":[`, 0, true, false},
		{"plain text", `Sure! Here are your files`, 0, true, false},
		{"top-level array", `[]`, 0, true, false},
		{"files not an array", `{"files":"style.css"}`, 0, true, true},
		{"item missing language", `{"files":[{"filename":"a.css","content":"x"}]}`, 0, true, true},
		{"item wrong type", `{"files":[{"filename":"a.css","content":7,"language":"css"}]}`, 0, true, true},
		{"blank filename", `{"files":[{"filename":" ","content":"x","language":"css"}]}`, 0, true, true},
		{"empty content", `{"files":[{"filename":"a.css","content":"","language":"css"}]}`, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := parseFiles(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ai.ErrGenerationFailed) {
					t.Errorf("every parse error should be a generation failure: %v", err)
				}
				if errors.Is(err, ErrSchemaMismatch) != tt.wantMismatch {
					t.Errorf("ErrSchemaMismatch: got %v, want %v (%v)", !tt.wantMismatch, tt.wantMismatch, err)
				}
				return
			}
			if files == nil {
				t.Error("files should be an empty slice, not nil")
			}
			if len(files) != tt.wantLen {
				t.Errorf("len: got %d, want %d", len(files), tt.wantLen)
			}
		})
	}
}

func TestGenerateLogsDuplicates(t *testing.T) {
	logger, buf := bufferLogger()
	client := &fakeClient{response: `{"files":[
		{"filename":"style.css","content":"a","language":"css"},
		{"filename":"style.css","content":"b","language":"css"}
	]}`}

	files, err := NewGenerator(client, "", logger).Generate(context.Background(), "x", DefaultConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("duplicates are kept as returned, got %d files", len(files))
	}
	if !strings.Contains(buf.String(), "duplicate filenames") {
		t.Errorf("expected duplicate warning, got: %s", buf.String())
	}
}

func TestFilesSchemaAcceptsItsOwnExamples(t *testing.T) {
	examples := []string{
		`{"files":[]}`,
		`{"files":[{"filename":"style.css","content":"/* Theme Name: Acme */","language":"css"}]}`,
		`{"files":[{"filename":"index.php","content":"<?php get_header(); ?>","language":"php"},{"filename":"footer.php","content":"<?php wp_footer(); ?>","language":"php"}]}`,
	}
	for _, ex := range examples {
		if err := FilesSchema().ValidateJSON(ex); err != nil {
			t.Errorf("schema rejected its own example %s: %v", ex, err)
		}
		if _, err := parseFiles(ex); err != nil {
			t.Errorf("parseFiles rejected %s: %v", ex, err)
		}
	}
}

func TestMissingFiles(t *testing.T) {
	files := []GeneratedFile{{Filename: "style.css"}, {Filename: "index.php"}}
	got := strings.Join(MissingFiles(files), ",")
	if got != "functions.php,header.php,footer.php" {
		t.Errorf("MissingFiles: got %q", got)
	}
}

func TestBatch(t *testing.T) {
	files := []GeneratedFile{{Filename: "style.css", Content: "x", Language: "css"}}
	a := NewBatch("p", files)
	b := NewBatch("p", nil)

	if a.ID == b.ID {
		t.Error("batches should get distinct IDs")
	}
	if b.Files == nil || b.Len() != 0 {
		t.Errorf("empty batch: got %+v", b.Files)
	}
	if f, ok := a.File("style.css"); !ok || f.Content != "x" {
		t.Errorf("File(style.css): got %+v, %v", f, ok)
	}
	if _, ok := a.File("missing.php"); ok {
		t.Error("File should report missing names")
	}

	var nilBatch *Batch
	if nilBatch.Len() != 0 {
		t.Error("nil batch should be empty")
	}
	if _, ok := nilBatch.File("style.css"); ok {
		t.Error("nil batch has no files")
	}
}
