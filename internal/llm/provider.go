package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ppiankov/isnad/internal/util"
)

const (
	defaultHostedTimeout = 60 * time.Second
	defaultLocalTimeout  = 120 * time.Second // local models are slower
)

const (
	defaultGeminiModel    = "gemini-3-flash-preview"
	defaultOpenAIModel    = openai.GPT4oMini
	defaultAnthropicModel = string(anthropic.ModelClaude3_5Haiku20241022)
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate performs exactly one call to the model and returns its raw text.
	// Implementations never retry.
	Generate(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request is a single-turn, schema-constrained generation request
type Request struct {
	// System is the fixed evaluation rubric
	System string

	// Prompt is the user text already wrapped in the instruction template
	Prompt string

	// Schema is the required output shape
	Schema jsonschema.Definition

	// SchemaName identifies the schema for providers that need a name
	SchemaName string

	// Model overrides the configured model when non-empty
	Model string

	// Temperature for generation; negative means use the provider config
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int
}

// Response is the raw model reply
type Response struct {
	// Text is the reply payload, expected to be one JSON object
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Temperature for judgment calls
	Temperature float64

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Model:       defaultGeminiModel,
		Timeout:     60,
		Temperature: 0.1,
		MaxTokens:   4096,
	}
}

// RequiresCredential reports whether the provider needs an API key
func RequiresCredential(provider string) bool {
	switch strings.ToLower(provider) {
	case "ollama":
		return false
	default:
		return true
	}
}

// CredentialEnv returns the environment variable holding the provider's API key
func CredentialEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	case "gemini", "google":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Second
	}
	return fallback
}

func (c Config) model(req Request, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 4096
}

func (c Config) temperature(req Request) float64 {
	if req.Temperature >= 0 {
		return req.Temperature
	}
	return c.Temperature
}

// newHTTPClient builds the client shared by all providers, honoring proxy settings
func newHTTPClient(c Config, fallback time.Duration) *http.Client {
	return &http.Client{
		Timeout: c.timeout(fallback),
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(c.HTTPProxy, c.HTTPSProxy, c.NoProxy),
		},
	}
}
