package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/isnad/internal/pipeline"
	"github.com/ppiankov/isnad/internal/server"
)

var (
	serveLLM  llmFlags
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve exposes the analyzer as a JSON API:

  POST /api/analyze   {"text": "..."} or a text/plain body, returns the report
  GET  /api/latest    the most recent report
  GET  /healthz       liveness

Example:
  isnad serve --addr :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveLLM.register(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	serveLLM.apply(cmd, cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Listening on %s (provider %s)\n", cfg.Server.Addr, cfg.LLM.Provider)
	return server.New(p, p.Store(), cfg.Server, true).ListenAndServe(ctx)
}
