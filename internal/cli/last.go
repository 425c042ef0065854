package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/isnad/internal/cache"
)

var clearLatest bool

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recent report without calling the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("format") {
			cfg.Output.Format = outputFormat
		}
		if !cfg.Cache.Enabled {
			return errors.New("the latest-result store is disabled (cache.enabled: false)")
		}

		store := cache.NewLatestStore(cfg.Cache)
		if clearLatest {
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared the latest report")
			return nil
		}

		report, ok, err := store.Load()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no stored report yet; run 'isnad analyze' first")
		}

		return emit(cmd.OutOrStdout(), cfg, report, "", "")
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
	lastCmd.Flags().StringVar(&outputFormat, "format", "", "stdout format: text, json, yaml (default from config)")
	lastCmd.Flags().BoolVar(&clearLatest, "clear", false, "forget the stored report")
}
