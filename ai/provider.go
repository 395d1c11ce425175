// Package ai answers free-text questions through two independently
// configured text-generation providers in fixed priority order. The
// broker never races them and never surfaces an error: when both fail,
// the answer itself says so.
package ai

import "context"

// Provider is a remote text-generation service. Implementations report
// success or failure only; the broker does not care why a call failed.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
