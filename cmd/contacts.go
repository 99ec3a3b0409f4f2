package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var contactsInput string

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Fill in missing phone numbers and emails on generated leads",
	Long:  "Reads the newest dated generated_leads file, searches for contact details on every lead missing a phone number, and writes an enriched copy.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, err := newSearchClient(cfg.Groq.ContactModel, cfg.Contacts)
		if err != nil {
			return err
		}

		runs := initStore(ctx)
		defer closeStore(runs)

		filler := pipeline.NewContactFiller(cfg, client, runs)
		filler.InputFile = contactsInput
		_, err = filler.Run(ctx)
		return err
	},
}

func init() {
	contactsCmd.Flags().StringVar(&contactsInput, "input", "", "generated leads XLSX file (default: newest dated file in the output dir)")
	rootCmd.AddCommand(contactsCmd)
}
