package llm

import (
	"context"
	"fmt"
)

// LLMProvider interface for chat completion backends
type LLMProvider interface {
	GenerateResponse(ctx context.Context, req Request) (*Response, error)
	GetProviderName() string
}

// Message is one turn of the conversation
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is a completion request: system prompt, prior turns and the new question
type Request struct {
	SystemPrompt string
	History      []Message
	UserMessage  string
}

// Response is the assistant answer with its usage
type Response struct {
	Content string
	Model   string
	Tokens  int
}

// ProviderType for the factory
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
)

// Base URLs of the OpenAI-compatible providers
const (
	GroqBaseURL     = "https://api.groq.com/openai/v1"
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
)

// ProviderConfig to create a provider
type ProviderConfig struct {
	Type        ProviderType
	APIKey      string
	BaseURL     string // overrides the provider default
	Model       string
	Temperature float32
	MaxTokens   int
}

// NewProvider factory for LLM providers. Every supported backend speaks
// the OpenAI chat completions API.
func NewProvider(cfg ProviderConfig) (LLMProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for LLM provider %q", cfg.Type)
	}

	switch cfg.Type {
	case ProviderOpenAI, "":
		return NewOpenAIProvider("OpenAI", cfg), nil

	case ProviderGroq:
		if cfg.BaseURL == "" {
			cfg.BaseURL = GroqBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = "llama-3.1-70b-versatile"
		}
		return NewOpenAIProvider("Groq", cfg), nil

	case ProviderDeepSeek:
		if cfg.BaseURL == "" {
			cfg.BaseURL = DeepSeekBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = "deepseek-chat"
		}
		return NewOpenAIProvider("DeepSeek", cfg), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}
