package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate targeted leads from the search plan",
	Long:  "Runs every city×template and agency search from the plan file, deduplicates the results, and writes a dated generated_leads XLSX file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, err := newSearchClient(cfg.Groq.Model, cfg.Generate)
		if err != nil {
			return err
		}

		runs := initStore(ctx)
		defer closeStore(runs)

		_, err = pipeline.NewGenerator(cfg, client, runs).Run(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
