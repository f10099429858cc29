// Package ai defines the text-generation provider used by the business
// assistant (holiday greetings and gift suggestions).
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider defines the interface for AI text generation
type Provider interface {
	// Generate produces free-form text for the prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderConfig contains common configuration for AI providers.
// There is deliberately no retry knob: a failed generation falls back to a
// canned message instead of being retried.
type ProviderConfig struct {
	RequestTimeout time.Duration // Timeout for individual requests
}

// Error codes for AI provider operations
var (
	// ErrRateLimit indicates the API rate limit has been exceeded
	ErrRateLimit = errors.New("ai provider rate limit exceeded")

	// ErrAPIUnavailable indicates the AI service is temporarily unavailable
	ErrAPIUnavailable = errors.New("ai service temporarily unavailable")

	// ErrEmptyResponse indicates the model returned no usable text
	ErrEmptyResponse = errors.New("ai model returned no text")
)

// WrapError wraps an error with additional context
func WrapError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
