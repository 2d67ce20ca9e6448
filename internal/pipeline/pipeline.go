// Package pipeline wires discovery, validation, and the collection store
// into one terminating batch run.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdfexplorer/pdffinder/internal/catalog"
	"github.com/pdfexplorer/pdffinder/internal/category"
	"github.com/pdfexplorer/pdffinder/internal/metrics"
	"github.com/pdfexplorer/pdffinder/internal/search"
	"github.com/pdfexplorer/pdffinder/internal/validate"
)

// URLValidator is the slice of the validator the pipeline needs.
type URLValidator interface {
	Validate(ctx context.Context, rawURL string) validate.Result
}

// Options select what one run does.
type Options struct {
	// Query is the search query, or the seed URL for the website backend.
	Query string
	// Backends names the discovery sources to fan out to.
	Backends []string
	// Limit caps results per backend.
	Limit int
	// Concurrency is the number of parallel validations. Values below 2
	// validate sequentially.
	Concurrency int
}

// Pipeline runs discovery batches against a collection store.
type Pipeline struct {
	backends  map[string]search.Backend
	validator URLValidator
	cats      category.Config
	logger    *zap.Logger
	now       func() time.Time
}

// New assembles a Pipeline. The backend set is fixed per process; unknown
// names in Options are skipped with a warning.
func New(backends []search.Backend, validator URLValidator, cats category.Config, logger *zap.Logger) *Pipeline {
	byName := make(map[string]search.Backend, len(backends))
	for _, b := range backends {
		byName[b.Name()] = b
	}
	return &Pipeline{
		backends:  byName,
		validator: validator,
		cats:      cats,
		logger:    logger,
		now:       time.Now,
	}
}

// Run discovers, validates, and merges candidates, then persists the store.
// It returns the entries added by this run. Only a failed persist is an
// error; individual candidate failures are logged and dropped.
func (p *Pipeline) Run(ctx context.Context, store *catalog.Store, opts Options) ([]catalog.Entry, error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))
	logger.Info("Starting discovery run",
		zap.String("query", opts.Query),
		zap.Strings("backends", opts.Backends),
		zap.Int("limit", opts.Limit),
	)

	candidates := p.discover(ctx, logger, opts)
	fresh := p.dedupe(candidates, store)
	logger.Info("Discovery complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("new", len(fresh)),
	)

	added := p.validateAndMerge(ctx, logger, store, fresh, opts)

	store.SetCategories(categoryInfos(p.cats))
	if err := store.Persist(p.now()); err != nil {
		return added, fmt.Errorf("persist collection: %w", err)
	}

	logger.Info("Run finished", zap.Int("added", len(added)))
	return added, nil
}

func (p *Pipeline) discover(ctx context.Context, logger *zap.Logger, opts Options) []search.Candidate {
	var all []search.Candidate
	for _, name := range opts.Backends {
		backend, ok := p.backends[name]
		if !ok {
			logger.Warn("Unknown backend; skipping", zap.String("backend", name))
			continue
		}
		found, err := backend.Discover(ctx, opts.Query, opts.Limit)
		if err != nil {
			logger.Warn("Backend discovery failed",
				zap.String("backend", name),
				zap.Error(err),
			)
			continue
		}
		metrics.CandidatesDiscovered.WithLabelValues(name).Add(float64(len(found)))
		all = append(all, found...)
	}
	return all
}

// dedupe drops candidates already cataloged or already produced earlier in
// this run, preserving discovery order.
func (p *Pipeline) dedupe(candidates []search.Candidate, store *catalog.Store) []search.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]search.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		if store.Contains(c.URL) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *Pipeline) validateAndMerge(ctx context.Context, logger *zap.Logger, store *catalog.Store, candidates []search.Candidate, opts Options) []catalog.Entry {
	var (
		mu    sync.Mutex
		added []catalog.Entry
	)
	process := func(c search.Candidate) {
		entry, ok := p.processCandidate(ctx, logger, c, opts.Query)
		if !ok {
			return
		}
		if !store.Merge(entry) {
			// Lost the race to an identical URL; nothing to do.
			return
		}
		metrics.EntriesMerged.Inc()
		mu.Lock()
		added = append(added, entry)
		mu.Unlock()
	}

	if opts.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for _, c := range candidates {
			c := c
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				process(c)
				return nil
			})
		}
		g.Wait()
		return added
	}

	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		process(c)
	}
	return added
}

func (p *Pipeline) processCandidate(ctx context.Context, logger *zap.Logger, c search.Candidate, query string) (catalog.Entry, bool) {
	res := p.validator.Validate(ctx, c.URL)
	if !res.OK {
		outcome := metrics.OutcomeRejected
		if res.Meta.StatusCode == 0 {
			outcome = metrics.OutcomeError
		}
		metrics.Validations.WithLabelValues(outcome).Inc()
		logger.Debug("Candidate dropped",
			zap.String("url", c.URL),
			zap.String("backend", c.Backend),
			zap.NamedError("reason", res.Reason),
		)
		return catalog.Entry{}, false
	}
	metrics.Validations.WithLabelValues(metrics.OutcomeAccepted).Inc()

	entry := catalog.Entry{
		ID:            catalog.EntryID(c.URL),
		URL:           c.URL,
		Title:         res.Meta.Title,
		Author:        res.Meta.Author,
		YearPublished: res.Meta.Year,
		Pages:         res.Meta.Pages,
		SizeMB:        res.Meta.SizeMB,
		Source:        c.Backend,
		Tags:          strings.Fields(query),
		Categories:    p.cats.Detect(res.Meta.Title + " " + query),
		IsAvailable:   true,
		LastStatus:    res.Meta.StatusCode,
	}
	return catalog.Normalize(entry, p.now()), true
}

func categoryInfos(cfg category.Config) []catalog.CategoryInfo {
	infos := make([]catalog.CategoryInfo, 0, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		infos = append(infos, catalog.CategoryInfo{ID: cat.ID, Name: cat.Name, Color: cat.Color})
	}
	return infos
}
