// Package mock provides a canned AI provider for testing and development.
package mock

import (
	"context"
	"log/slog"
)

// Provider is a mock AI provider for testing and development
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	GenerateResponse string
	GenerateError    error

	// Call tracking for testing
	GenerateCalls int
	LastPrompt    string
}

// New creates a new mock AI provider
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// Generate returns the configured response, or a canned greeting
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	p.GenerateCalls++
	p.LastPrompt = prompt

	if p.GenerateError != nil {
		return "", p.GenerateError
	}
	if p.GenerateResponse != "" {
		return p.GenerateResponse, nil
	}

	// Default canned response
	return "안녕하세요. 한 해 동안 보내주신 성원에 깊이 감사드리며, 풍성한 한가위 보내시길 기원합니다.", nil
}
