// Package deps contains the contracts the assistant domain depends on
package deps

import "context"

// Generator is a text generation backend
type Generator interface {
	// Enabled reports whether the backend is configured
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}
