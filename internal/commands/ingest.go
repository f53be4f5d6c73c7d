package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"igen/internal/models"
	"igen/internal/services"
)

func newIngestCommand(open dbOpener) *cobra.Command {
	var bankAccountID string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a CSV statement directly into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			db, err := open()
			if err != nil {
				return err
			}

			result, err := services.NewUploadService(db).Ingest(cmd.Context(), services.SystemScope(), services.IngestRequest{
				BankAccountID: bankAccountID,
				FileName:      filepath.Base(args[0]),
				Content:       f,
				Source:        models.UploadSourceCLI,
			})
			if err != nil {
				return fmt.Errorf("ingesting %s: %w", args[0], err)
			}

			printResult(cmd.OutOrStdout(), filepath.Base(args[0]), result.UploadBatchID, result.Uploaded, result.SkippedDuplicates, result.BalanceContinuity)
			return nil
		},
	}

	cmd.Flags().StringVar(&bankAccountID, "bank-account", "", "bank account id (required)")
	_ = cmd.MarkFlagRequired("bank-account")

	return cmd
}

func printResult(w io.Writer, fileName, batchID string, uploaded, skipped int, continuity string) {
	fmt.Fprintf(w, "%s: batch %s, %d uploaded, %d duplicates skipped, balance continuity %s\n",
		fileName, batchID, uploaded, skipped, continuity)
}
