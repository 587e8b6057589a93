// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedFile is one source file emitted by the generator.
// Language is advisory and never checked against Content.
type GeneratedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Batch is the immutable result of one generation. A new generation
// replaces the whole batch.
type Batch struct {
	ID        uuid.UUID       `json:"id"`
	Prompt    string          `json:"prompt"`
	Files     []GeneratedFile `json:"files"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewBatch stamps a generation result with a fresh ID.
func NewBatch(prompt string, files []GeneratedFile) *Batch {
	if files == nil {
		files = []GeneratedFile{}
	}
	return &Batch{
		ID:        uuid.New(),
		Prompt:    prompt,
		Files:     files,
		CreatedAt: time.Now().UTC(),
	}
}

// File returns the first file with the given name.
func (b *Batch) File(name string) (GeneratedFile, bool) {
	if b == nil {
		return GeneratedFile{}, false
	}
	for _, f := range b.Files {
		if f.Filename == name {
			return f, true
		}
	}
	return GeneratedFile{}, false
}

// Len returns the number of files, treating a nil batch as empty.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Files)
}
