package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdfexplorer/pdffinder/internal/category"
	"github.com/pdfexplorer/pdffinder/internal/config"
	"github.com/pdfexplorer/pdffinder/internal/logging"
)

// newQueriesCmd creates the 'queries' subcommand, which prints the search
// queries derived from the category configuration. Useful for feeding the
// find command from a shell loop.
func newQueriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queries [category]",
		Short: "Prints the search queries generated for a category",
		Long: `Generates the ready-to-run search queries for the given category by
combining its keywords with the configured search suffixes. Without an
argument, queries for every category are printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("logger init: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			cats, err := category.Load(cfg.Collection.CategoriesPath, logger)
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(cats.Categories))
			if len(args) == 1 {
				if _, ok := cats.ByID(args[0]); !ok {
					return fmt.Errorf("unknown category %q", args[0])
				}
				ids = append(ids, args[0])
			} else {
				for _, cat := range cats.Categories {
					ids = append(ids, cat.ID)
				}
			}

			for _, id := range ids {
				for _, q := range cats.SearchQueries(id) {
					fmt.Fprintln(cmd.OutOrStdout(), q)
				}
			}
			return nil
		},
	}
}
