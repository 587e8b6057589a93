// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing means the active provider has no API key.
	ErrCredentialMissing = errors.New("ai: credential missing")

	// ErrGenerationFailed is matched by every transport, provider and
	// response-shape failure of a generation call.
	ErrGenerationFailed = errors.New("ai: generation failed")

	// ErrEmptyResponse means the provider answered without any text.
	ErrEmptyResponse = errors.New("empty response")
)

// GenerationError carries the underlying cause of a failed generation.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("ai: %s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGenerationFailed) true for any GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}
