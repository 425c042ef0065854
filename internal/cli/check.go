package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/isnad/internal/analysis"
	"github.com/ppiankov/isnad/internal/llm"
)

var checkLLM llmFlags

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured provider is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		checkLLM.apply(cmd, cfg)

		a, err := analysis.NewAnalyzer(llm.ConfigFromModel(cfg))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		ok, err := a.IsAvailable(ctx)
		if err != nil {
			return analysisError(err)
		}
		if !ok {
			return fmt.Errorf("%s is not reachable", a.ProviderName())
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s reachable (model %s)\n", a.ProviderName(), a.Model())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkLLM.register(checkCmd)
}
