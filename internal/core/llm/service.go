package llm

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service wraps an LLM provider for dependency injection
type Service struct {
	provider LLMProvider
}

// NewService creates the service from config
func NewService(cfg ProviderConfig) (*Service, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("provider", provider.GetProviderName()).
		Str("model", cfg.Model).
		Msg("LLM provider ready")

	return &Service{provider: provider}, nil
}

// NewServiceWithProvider creates a service around a custom provider (for testing)
func NewServiceWithProvider(provider LLMProvider) *Service {
	return &Service{provider: provider}
}

// GenerateResponse generates the assistant answer
func (s *Service) GenerateResponse(ctx context.Context, req Request) (*Response, error) {
	return s.provider.GenerateResponse(ctx, req)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
