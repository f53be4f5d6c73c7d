// Package commands implements the igenctl operator CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"igen/internal/config"
	"igen/internal/database"
)

// dbOpener returns the database the local commands operate on.
type dbOpener func() (*gorm.DB, error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openDatabase)
}

func newRootCommand(open dbOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "igenctl",
		Short: "Operator tooling for the igen bank statement ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newUserCommand(open))
	rootCmd.AddCommand(newIngestCommand(open))
	rootCmd.AddCommand(newPushCommand())

	return rootCmd
}

func openDatabase() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	m, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return m.DB(), nil
}
