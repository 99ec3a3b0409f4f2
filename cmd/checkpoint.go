package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/checkpoint"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or reset the enrichment checkpoint",
}

var checkpointStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many rows the checkpoint covers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st := checkpoint.NewStore(cfg.Checkpoint.Path)
		state, err := st.Load()
		if err != nil {
			return err
		}

		if state.Len() == 0 {
			fmt.Fprintf(os.Stdout, "No checkpoint at %s\n", st.Path())
			return nil
		}

		indices := state.Indices()
		fmt.Fprintf(os.Stdout, "Checkpoint: %s\n", st.Path())
		fmt.Fprintf(os.Stdout, "Processed rows: %d (first %d, last %d)\n",
			state.Len(), indices[0], indices[len(indices)-1])
		return nil
	},
}

var checkpointResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the checkpoint so the next enrich run starts fresh",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st := checkpoint.NewStore(cfg.Checkpoint.Path)
		if err := st.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Checkpoint removed: %s\n", st.Path())
		return nil
	},
}

func init() {
	checkpointCmd.AddCommand(checkpointStatusCmd)
	checkpointCmd.AddCommand(checkpointResetCmd)
	rootCmd.AddCommand(checkpointCmd)
}
