// Package analysis sends a narration to the external model and turns the
// reply into a validated AnalysisResult.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/isnad/internal/llm"
	"github.com/ppiankov/isnad/internal/model"
)

// Analyzer is stateless between calls; the credential is read-only configuration
type Analyzer struct {
	provider llm.Provider // nil when the credential is missing
	config   llm.Config
	logw     io.Writer
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithProvider injects a provider instead of building one from config
func WithProvider(p llm.Provider) Option {
	return func(a *Analyzer) {
		a.provider = p
	}
}

// WithLog sets where absorbed failures are reported (nil silences them)
func WithLog(w io.Writer) Option {
	return func(a *Analyzer) {
		a.logw = w
	}
}

// NewAnalyzer creates an analyzer. A missing credential is not an error here:
// it is reported by Analyze so misconfiguration surfaces on use.
func NewAnalyzer(config llm.Config, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		config: config,
		logw:   os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.provider == nil && a.credentialPresent() {
		p, err := llm.NewProvider(config)
		if err != nil {
			return nil, fmt.Errorf("create provider: %w", err)
		}
		a.provider = p
	}

	return a, nil
}

// ProviderName returns the configured provider name
func (a *Analyzer) ProviderName() string {
	if a.provider != nil {
		return a.provider.Name()
	}
	return a.config.Provider
}

// Model returns the configured model name, or the provider default
func (a *Analyzer) Model() string {
	if a.config.Model != "" {
		return a.config.Model
	}
	return llm.DefaultModel(a.config.Provider)
}

// Analyze returns a judgment for text. Transport failures and non-conforming
// replies yield model.Fallback() with a nil error; only a missing credential
// (*model.ConfigurationError) is returned as an error.
//
// Cancelling ctx abandons the call; the result is then the fallback.
func (a *Analyzer) Analyze(ctx context.Context, text string) (model.AnalysisResult, error) {
	result, err := a.Evaluate(ctx, text)
	if err == nil {
		return result, nil
	}

	var cfgErr *model.ConfigurationError
	if errors.As(err, &cfgErr) {
		return model.AnalysisResult{}, err
	}

	a.logf("Warning: analysis failed, using fallback result: %v\n", err)
	return model.Fallback(), nil
}

// Evaluate is Analyze without the fallback: it returns either a validated
// result or one of *model.ConfigurationError, *model.TransportError,
// *model.ContractViolation.
func (a *Analyzer) Evaluate(ctx context.Context, text string) (model.AnalysisResult, error) {
	if err := a.checkCredential(); err != nil {
		return model.AnalysisResult{}, err
	}

	req := llm.Request{
		System:      llm.SystemInstruction,
		Prompt:      llm.WrapUserText(text),
		Schema:      llm.ResultSchema(),
		SchemaName:  llm.ResultSchemaName,
		Model:       a.config.Model,
		Temperature: a.config.Temperature,
		MaxTokens:   a.config.MaxTokens,
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return model.AnalysisResult{}, &model.TransportError{Provider: a.provider.Name(), Err: err}
	}
	if resp == nil || resp.Text == "" {
		return model.AnalysisResult{}, &model.TransportError{Provider: a.provider.Name(), Err: errors.New("empty reply")}
	}

	return DecodeResult(resp.Text)
}

// IsAvailable probes the provider without analyzing anything
func (a *Analyzer) IsAvailable(ctx context.Context) (bool, error) {
	if err := a.checkCredential(); err != nil {
		return false, err
	}
	return a.provider.IsAvailable(ctx), nil
}

func (a *Analyzer) credentialPresent() bool {
	return a.config.APIKey != "" || !llm.RequiresCredential(a.config.Provider)
}

func (a *Analyzer) checkCredential() error {
	if a.credentialPresent() && a.provider != nil {
		return nil
	}
	return &model.ConfigurationError{
		Provider: a.config.Provider,
		Setting:  llm.CredentialEnv(a.config.Provider),
	}
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.logw == nil {
		return
	}
	fmt.Fprintf(a.logw, format, args...)
}
