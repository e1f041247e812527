//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package input

import (
	"context"
	"fmt"
)

// PortAudio capture implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio device
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Supports reports false since nothing can be recorded
func (p *PortAudio) Supports(mimeType string) bool {
	return false
}

// Acquire always fails without the portaudio build tag
func (p *PortAudio) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	return nil, fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}
