package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/isnad/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "gemini", "google":
		return NewGeminiProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}

// ResolveCredential fills an empty API key from the provider's own variable,
// falling back to API_KEY for Gemini. An empty Ollama base URL is taken
// from OLLAMA_BASE_URL.
func ResolveCredential(cfg *model.LLMConfig) {
	if cfg.APIKey == "" {
		if env := CredentialEnv(cfg.Provider); env != "" {
			cfg.APIKey = os.Getenv(env)
		}
	}
	if cfg.APIKey == "" && CredentialEnv(cfg.Provider) == "GEMINI_API_KEY" {
		cfg.APIKey = os.Getenv("API_KEY")
	}
	if cfg.BaseURL == "" && strings.EqualFold(cfg.Provider, "ollama") {
		cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
}

// ConfigFromModel converts the runtime configuration to llm.Config
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Timeout:     cfg.LLM.Timeout,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		HTTPProxy:   cfg.HTTP.HTTPProxy,
		HTTPSProxy:  cfg.HTTP.HTTPSProxy,
		NoProxy:     cfg.HTTP.NoProxy,
	}
}

// DefaultModel returns the model a provider uses when none is configured
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "gemini", "google":
		return defaultGeminiModel
	case "openai":
		return defaultOpenAIModel
	case "anthropic", "claude":
		return defaultAnthropicModel
	default:
		return ""
	}
}
