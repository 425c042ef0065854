package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/isnad/internal/model"
	"github.com/ppiankov/isnad/internal/pipeline"
	"github.com/ppiankov/isnad/internal/present"
)

var (
	analyzeLLM   llmFlags
	inputFile    string
	outJSON      string
	outMD        string
	outHTML      string
	outputFormat string
	noFooter     bool
	noColor      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze a single narration",
	Long: `Analyze sends one narration to the configured model and prints the
judgment with its derived radar and comparison series.

The text comes from the arguments, --file, or standard input.

Example:
  isnad analyze "إنما الأعمال بالنيات وإنما لكل امرئ ما نوى"
  isnad analyze --file hadith.txt --md report.md --html report.html
  echo "..." | isnad analyze --format json
  isnad analyze --provider ollama --model qwen2.5 "..."`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the narration from a file")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "also write the report as JSON to this path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "also write the report as Markdown to this path")
	analyzeCmd.Flags().StringVar(&outHTML, "html", "", "also write the report as HTML to this path")
	analyzeCmd.Flags().StringVar(&outputFormat, "format", "", "stdout format: text, json, yaml (default from config)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	analyzeLLM.register(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, inputFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	analyzeLLM.apply(cmd, cfg)
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if noColor {
		cfg.Output.Color = false
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Analyzing with %s\n", cfg.LLM.Provider)
	}

	report, err := p.Run(ctx, text)
	if err != nil {
		return analysisError(err)
	}

	if outHTML != "" {
		if err := pipeline.NewRenderer(nil, cfg.Output.IncludeFooter).RenderHTML(report, outHTML); err != nil {
			return fmt.Errorf("render HTML: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Wrote HTML: %s\n", outHTML)
		}
	}

	return emit(cmd.OutOrStdout(), cfg, report, outJSON, outMD)
}

// emit prints the report in the configured format and writes optional files
func emit(w io.Writer, cfg *model.Config, report *model.Report, jsonPath, mdPath string) error {
	styles := present.NewStyles(cfg.Output.Color && present.IsTerminal(w))
	renderer := pipeline.NewRenderer(styles, cfg.Output.IncludeFooter)

	if jsonPath != "" {
		if err := renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", mdPath)
		}
	}

	switch strings.ToLower(cfg.Output.Format) {
	case "json":
		return renderer.WriteJSON(w, report)
	case "yaml", "yml":
		return renderer.WriteYAML(w, report)
	case "md", "markdown":
		return renderer.WriteMarkdown(w, report)
	case "", "text":
		return renderer.WriteSummary(w, report)
	default:
		return fmt.Errorf("unknown output format %q (supported: text, json, yaml, markdown)", cfg.Output.Format)
	}
}

// readInput takes the narration from args, a file, or piped stdin
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	var text string
	switch {
	case len(args) > 0 && file != "":
		return "", errors.New("pass the text as arguments or --file, not both")
	case len(args) > 0:
		text = strings.Join(args, " ")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		text = string(data)
	default:
		if f, ok := stdin.(*os.File); ok && present.IsTerminal(f) {
			return "", errors.New("no narration given: pass text, --file, or pipe it on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", pipeline.ErrEmptyInput
	}
	return text, nil
}

// analysisError adds a hint to configuration failures
func analysisError(err error) error {
	var cfgErr *model.ConfigurationError
	if errors.As(err, &cfgErr) {
		hint := "set the provider API key"
		if cfgErr.Setting != "" {
			hint = "export " + cfgErr.Setting + "=... (or ISNAD_API_KEY, or llm.api_key in the config file)"
		}
		return fmt.Errorf("%w\n  %s", err, hint)
	}
	return fmt.Errorf("analysis failed: %w", err)
}
