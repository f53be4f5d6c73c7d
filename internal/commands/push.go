package commands

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"igen/internal/client"
)

func newPushCommand() *cobra.Command {
	var (
		apiURL        string
		apiKey        string
		bankAccountID string
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "push <dir>",
		Short: "Upload every CSV statement in a directory through the pipeline API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("PIPELINE_API_KEY")
			}
			if apiKey == "" {
				return fmt.Errorf("--api-key or PIPELINE_API_KEY is required")
			}

			files, err := statementFiles(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No CSV files in %s\n", args[0])
				return nil
			}

			c := client.NewPipelineClient(apiURL, apiKey, &http.Client{Timeout: timeout})
			failed := 0
			for _, path := range files {
				if err := pushFile(cmd, c, bankAccountID, path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filepath.Base(path), err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "igen API base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "pipeline API key, defaults to $PIPELINE_API_KEY")
	cmd.Flags().StringVar(&bankAccountID, "bank-account", "", "bank account id (required)")
	_ = cmd.MarkFlagRequired("bank-account")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "per-file upload timeout")

	return cmd
}

func pushFile(cmd *cobra.Command, c *client.PipelineClient, bankAccountID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := c.UploadStatement(cmd.Context(), bankAccountID, filepath.Base(path), f)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), filepath.Base(path), result.UploadBatchID, result.Uploaded, result.SkippedDuplicates, result.BalanceContinuity)
	return nil
}

// statementFiles lists the .csv files directly inside dir in name order.
func statementFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
