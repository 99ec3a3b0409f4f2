package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/checkpoint"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var enrichInput string

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Verify and enrich leads from the input dataset",
	Long:  "Searches the web for each lead in the input XLSX file, verifies employment and contact data, and writes a dated enriched_leads file. Progress is checkpointed so an interrupted run resumes where it left off.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if enrichInput != "" {
			cfg.Paths.Input = enrichInput
		}

		client, err := newSearchClient(cfg.Groq.Model, cfg.Enrich)
		if err != nil {
			return err
		}

		runs := initStore(ctx)
		defer closeStore(runs)

		ckpt := checkpoint.NewStore(cfg.Checkpoint.Path)
		_, err = pipeline.NewEnricher(cfg, client, ckpt, runs).Run(ctx)
		return err
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "input XLSX file (default from config)")
	rootCmd.AddCommand(enrichCmd)
}
