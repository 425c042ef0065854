// Package pipeline runs one analysis end to end: judgment, derived
// metrics, severity class, latest-result store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/isnad/internal/analysis"
	"github.com/ppiankov/isnad/internal/cache"
	"github.com/ppiankov/isnad/internal/llm"
	"github.com/ppiankov/isnad/internal/model"
	"github.com/ppiankov/isnad/internal/present"
	"github.com/ppiankov/isnad/internal/score"
)

// ErrEmptyInput is returned for text that is blank after trimming
var ErrEmptyInput = errors.New("narration text is empty")

// Evaluator is the part of analysis.Analyzer the pipeline needs
type Evaluator interface {
	Evaluate(ctx context.Context, text string) (model.AnalysisResult, error)
	ProviderName() string
	Model() string
}

// Pipeline orchestrates a single analysis
type Pipeline struct {
	analyzer Evaluator
	store    *cache.LatestStore // nil disables the latest-result store
	logw     io.Writer
	now      func() time.Time
}

// New creates a pipeline from its parts
func New(analyzer Evaluator, store *cache.LatestStore, logw io.Writer) *Pipeline {
	return &Pipeline{
		analyzer: analyzer,
		store:    store,
		logw:     logw,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	logw := io.Discard
	if cfg.Output.Verbose {
		logw = os.Stderr
	}

	analyzer, err := analysis.NewAnalyzer(llm.ConfigFromModel(cfg), analysis.WithLog(logw))
	if err != nil {
		return nil, err
	}

	return New(analyzer, cache.NewLatestStore(cfg.Cache), os.Stderr), nil
}

// Store returns the latest-result store (may be nil)
func (p *Pipeline) Store() *cache.LatestStore {
	return p.store
}

// Run analyzes text and returns the report. Transport failures and bad
// replies produce a degraded report carrying the fallback result. A missing
// credential, an internal contract failure or an abandoned ctx is returned
// as an error, and an abandoned run leaves the stored report untouched.
func (p *Pipeline) Run(ctx context.Context, text string) (*model.Report, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	result, err := p.analyzer.Evaluate(ctx, text)
	failure := ""
	if err != nil {
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("analysis abandoned: %w", ctxErr)
		}
		failure = err.Error()
		result = model.Fallback()
		p.logf("Warning: analysis failed, using fallback result: %v\n", err)
	}

	report, err := BuildReport(text, result, p.analyzer.ProviderName(), p.analyzer.Model(), p.now())
	if err != nil {
		return nil, err
	}
	report.Degraded = failure != ""
	report.Failure = failure

	if p.store != nil {
		if err := p.store.Save(report); err != nil {
			p.logf("Warning: failed to store latest report: %v\n", err)
		}
	}

	return report, nil
}

// BuildReport derives everything the rendering layer consumes from a
// validated result. An impossible verdict is a ContractViolation.
func BuildReport(input string, result model.AnalysisResult, provider, modelName string, at time.Time) (*model.Report, error) {
	severity, err := present.SeverityClass(result.Verdict)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	return &model.Report{
		ID:         uuid.NewString(),
		Input:      input,
		AnalyzedAt: at,
		Provider:   provider,
		Model:      modelName,
		Result:     result,
		Severity:   severity,
		Radar:      score.RadarSeries(result),
		Comparison: score.ComparisonSeries(result),
		Chain:      score.ChainLinks(result.NarratorChain),
	}, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logw == nil {
		return
	}
	fmt.Fprintf(p.logw, format, args...)
}
