package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdfexplorer/pdffinder/internal/catalog"
	"github.com/pdfexplorer/pdffinder/internal/category"
	"github.com/pdfexplorer/pdffinder/internal/config"
	"github.com/pdfexplorer/pdffinder/internal/crawler"
	"github.com/pdfexplorer/pdffinder/internal/logging"
	"github.com/pdfexplorer/pdffinder/internal/metrics"
	"github.com/pdfexplorer/pdffinder/internal/pipeline"
	"github.com/pdfexplorer/pdffinder/internal/politeness"
	"github.com/pdfexplorer/pdffinder/internal/search"
	"github.com/pdfexplorer/pdffinder/internal/validate"
)

type findOptions struct {
	site     string
	backends []string
	limit    int
	noVerify bool
	output   string
	fresh    bool
}

// newFindCmd creates and configures the 'find' subcommand, which runs one
// discovery batch and persists the updated collection.
func newFindCmd() *cobra.Command {
	opts := &findOptions{}

	cmd := &cobra.Command{
		Use:   "find [query]",
		Short: "Discovers, validates, and catalogs PDF documents",
		Long: `Runs one discovery batch: fans the query out to the configured search
backends (or crawls the site given with --site), validates every new
candidate URL, and merges the survivors into the collection file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runFindCommand(cmd, query, opts)
		},
	}

	cmd.Flags().StringVar(&opts.site, "site", "", "seed URL to crawl instead of searching")
	cmd.Flags().StringSliceVar(&opts.backends, "backends", nil, "discovery backends to use (duckduckgo, engine, website)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum results per backend (0 = configured default)")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "skip downloading document prefixes for metadata")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "collection file to write (default from config)")
	cmd.Flags().BoolVar(&opts.fresh, "fresh", false, "start a new collection instead of appending to an existing file")

	return cmd
}

func runFindCommand(cmd *cobra.Command, query string, opts *findOptions) error {
	if query == "" && opts.site == "" {
		return fmt.Errorf("either a query argument or --site is required")
	}
	if query != "" && opts.site != "" {
		return fmt.Errorf("a query argument and --site are mutually exclusive")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFindOverrides(&cfg, opts)

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cats, err := category.Load(cfg.Collection.CategoriesPath, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if cfg.Metrics.Enabled {
		debug := metrics.NewServer(cfg.Metrics.Addr, logger.Named("metrics"))
		debug.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := debug.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Debug server shutdown failed", zap.Error(err))
			}
		}()
	}

	store, err := openStore(cfg, opts.fresh, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(buildBackends(cfg, logger), buildValidator(cfg, logger), cats, logger)

	runOpts := pipeline.Options{
		Query:       query,
		Backends:    resolveBackends(opts),
		Limit:       cfg.Search.Limit,
		Concurrency: cfg.Validation.Concurrency,
	}
	if opts.site != "" {
		runOpts.Query = opts.site
	}

	added, err := p.Run(ctx, store, runOpts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %d new document(s); collection now holds %d.\n", len(added), store.Len())
	for _, e := range added {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", e.ID, e.Title)
	}
	return nil
}

func applyFindOverrides(cfg *config.Config, opts *findOptions) {
	if opts.limit > 0 {
		cfg.Search.Limit = opts.limit
	}
	if opts.noVerify {
		cfg.Validation.DeepVerify = false
	}
	if opts.output != "" {
		cfg.Collection.Path = opts.output
	}
}

// resolveBackends picks the backend set: explicit flag first, otherwise the
// site crawler for --site runs and the search engines for query runs.
func resolveBackends(opts *findOptions) []string {
	if len(opts.backends) > 0 {
		return opts.backends
	}
	if opts.site != "" {
		return []string{"website"}
	}
	return []string{"duckduckgo", "engine"}
}

func openStore(cfg config.Config, fresh bool, logger *zap.Logger) (*catalog.Store, error) {
	if fresh {
		if err := removeIfPresent(cfg.Collection.Path); err != nil {
			return nil, fmt.Errorf("reset collection: %w", err)
		}
		logger.Info("Starting a fresh collection", zap.String("path", cfg.Collection.Path))
	}
	return catalog.Open(cfg.Collection.Path, logger), nil
}

func buildBackends(cfg config.Config, logger *zap.Logger) []search.Backend {
	searchMin, searchMax := cfg.SearchDelayBounds()
	crawlMin, crawlMax := cfg.ValidationDelayBounds()
	searchPolite := politeness.New(searchMin, searchMax, nil)
	crawlPolite := politeness.New(crawlMin, crawlMax, nil)
	searchTimeout := time.Duration(cfg.Search.TimeoutSeconds) * time.Second
	crawlTimeout := time.Duration(cfg.Crawl.TimeoutSeconds) * time.Second

	fetcher := crawler.NewCollyFetcher(crawlTimeout, crawlPolite, logger.Named("fetch"))
	robots := crawler.NewRobotsPolicy(cfg.Crawl.RespectRobots, crawlPolite.UserAgent(), logger.Named("robots"))
	site := crawler.New(crawler.Config{
		FrontierCapacity: cfg.Crawl.FrontierCapacity,
		MaxVisits:        cfg.Crawl.MaxVisits,
	}, fetcher, robots, crawlPolite, logger.Named("website"))

	return []search.Backend{
		search.NewDuckDuckGo(searchPolite, searchTimeout, logger.Named("duckduckgo")),
		search.NewEngineAPI(cfg.Engine.BaseURL, cfg.Engine.APIKey, searchPolite, searchTimeout, logger.Named("engine")),
		site,
	}
}

func buildValidator(cfg config.Config, logger *zap.Logger) *validate.Validator {
	minDelay, maxDelay := cfg.ValidationDelayBounds()
	polite := politeness.New(minDelay, maxDelay, nil)
	return validate.New(validate.Config{
		MaxSizeMB:   cfg.Validation.MaxSizeMB,
		PrefixBytes: cfg.Validation.PrefixBytes,
		Timeout:     time.Duration(cfg.Validation.TimeoutSeconds) * time.Second,
		DeepVerify:  cfg.Validation.DeepVerify,
	}, polite, logger.Named("validate"))
}

func removeIfPresent(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
