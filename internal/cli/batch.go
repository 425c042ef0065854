package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/isnad/internal/model"
	"github.com/ppiankov/isnad/internal/pipeline"
	"github.com/ppiankov/isnad/internal/worker"
)

var (
	batchLLM     llmFlags
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	xlsxPath     string
	rps          float64
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many narrations from a file",
	Long: `Batch analyzes every narration in a file concurrently:
- One narration per paragraph (separate paragraphs with a blank line)
- Lines starting with # are ignored
- Calls are rate limited per provider (rate_limiting in the config)
- One JSON report per narration, plus an optional Excel summary

Example:
  isnad batch sayings.txt
  isnad batch sayings.txt --concurrency 2 --output-dir ./reports --xlsx summary.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./isnad-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
	batchCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an Excel summary to this path")
	batchCmd.Flags().Float64Var(&rps, "rps", 0, "requests per second to the provider, 0 for unlimited (default from config)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchLLM.register(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	batchLLM.apply(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	texts, err := worker.ReadNarrationsFile(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s (%d narrations)\n", file, len(texts))
	fmt.Fprintf(os.Stderr, "  Provider:     %s\n", cfg.LLM.Provider)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	if cmd.Flags().Changed("rps") {
		cfg.RateLimiting.RequestsPerSecond = rps
	}
	fmt.Fprintf(os.Stderr, "  Rate limit:   %.2f req/s (burst %d)\n", cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	if cfg.LLM.Provider == "ollama" && !cmd.Flags().Changed("rps") {
		// local models are bounded by --concurrency alone
		limiter.SetRate("ollama", 0, 0)
	}
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, limiter, cfg.LLM.Provider)
	results := processor.Process(ctx, texts)

	renderer := pipeline.NewRenderer(nil, cfg.Output.IncludeFooter)
	reports := make([]*model.Report, len(results))

	for _, res := range results {
		label := fmt.Sprintf("#%d", res.Index+1)
		if res.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", label, analysisError(res.Error))
			continue
		}
		reports[res.Index] = res.Report

		jsonPath := filepath.Join(outputDir, reportFileName(res.Index, res.Report))
		if err := renderer.RenderJSON(res.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", label, err)
			continue
		}

		status := res.Report.Result.Verdict.Code()
		if res.Report.Degraded {
			status += " (degraded)"
		}
		fmt.Fprintf(os.Stderr, "✓ %s %s  confidence %.0f\n", label, status, res.Report.Result.ConfidenceScore)
	}

	if xlsxPath != "" {
		if err := pipeline.WriteXLSX(xlsxPath, reports); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		fmt.Fprintf(os.Stderr, "\nWrote Excel summary: %s\n", xlsxPath)
	}

	printSummary(worker.Summarize(results))
	return nil
}

func printSummary(s worker.Summary) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d\n", s.Total)
	fmt.Fprintf(os.Stderr, "  Failed:     %d\n", s.Failed)
	fmt.Fprintf(os.Stderr, "  Degraded:   %d\n", s.Degraded)
	for _, v := range model.Verdicts {
		fmt.Fprintf(os.Stderr, "  %-10s  %d\n", v.Code()+":", s.Verdicts[v])
	}
	if s.Total-s.Failed-s.Degraded > 0 {
		fmt.Fprintf(os.Stderr, "  Confidence: mean %.1f, median %.1f, stddev %.1f, range %.0f-%.0f\n",
			s.MeanConfidence, s.MedianConfidence, s.StdDevConfidence, s.MinConfidence, s.MaxConfidence)
	}
	fmt.Fprintf(os.Stderr, "\n")
}

// reportFileName is stable per input position: 001-MAWDU.json
func reportFileName(index int, report *model.Report) string {
	return fmt.Sprintf("%03d-%s.json", index+1, report.Result.Verdict.Code())
}
