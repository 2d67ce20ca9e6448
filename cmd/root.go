// Package cmd defines and implements the CLI commands for the pdffinder
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdffinder",
		Short: "Discovers and catalogs PDF documents from the web.",
		Long: `pdffinder searches the web and crawls sites for PDF documents,
validates each candidate URL, extracts document metadata, and merges the
results into a JSON collection shared with the viewer application.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")

	cmd.AddCommand(newFindCmd())
	cmd.AddCommand(newQueriesCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
