// Package crawler implements the same-site breadth-first document crawler.
// It walks a single registrable domain from a seed URL, yielding links that
// look like documents and expanding everything else through a bounded
// frontier. Nothing is persisted here; the crawler only produces candidates.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdfexplorer/pdffinder/internal/metrics"
	"github.com/pdfexplorer/pdffinder/internal/politeness"
	"github.com/pdfexplorer/pdffinder/internal/search"
)

const (
	defaultFrontierCapacity = 50
	defaultMaxVisits        = 100
)

// Config bounds a site crawl.
type Config struct {
	// FrontierCapacity caps the pending queue (default 50).
	FrontierCapacity int
	// MaxVisits is the safety ceiling on fetched pages (default 100).
	MaxVisits int
}

// SiteCrawl discovers document links on one site. It satisfies the search
// Backend contract with the query reinterpreted as the seed URL, so the
// pipeline fans out to it exactly like to the engine backends.
type SiteCrawl struct {
	cfg     Config
	fetcher Fetcher
	robots  RobotsPolicy
	polite  politeness.Controller
	logger  *zap.Logger
}

// New builds a SiteCrawl around the given fetcher and policies.
func New(cfg Config, fetcher Fetcher, robots RobotsPolicy, polite politeness.Controller, logger *zap.Logger) *SiteCrawl {
	if cfg.FrontierCapacity <= 0 {
		cfg.FrontierCapacity = defaultFrontierCapacity
	}
	if cfg.MaxVisits <= 0 {
		cfg.MaxVisits = defaultMaxVisits
	}
	return &SiteCrawl{
		cfg:     cfg,
		fetcher: fetcher,
		robots:  robots,
		polite:  polite,
		logger:  logger,
	}
}

// Name implements search.Backend.
func (s *SiteCrawl) Name() string { return "website" }

// Discover crawls from seedURL until limit candidates are found, the
// frontier drains, or the visit ceiling is hit.
func (s *SiteCrawl) Discover(ctx context.Context, seedURL string, limit int) ([]search.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Host == "" {
		return nil, fmt.Errorf("invalid seed url %q", seedURL)
	}

	front := newFrontier(s.cfg.FrontierCapacity)
	front.push(seed.String())

	var results []search.Candidate
	seen := make(map[string]struct{})

	for front.pending() > 0 && len(results) < limit {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if front.visitedCount() >= s.cfg.MaxVisits {
			s.logger.Warn("Visit ceiling reached; stopping crawl",
				zap.String("seed", seedURL),
				zap.Int("visited", front.visitedCount()),
			)
			break
		}

		current, ok := front.pop()
		if !ok {
			break
		}
		if !s.robots.Allowed(ctx, current) {
			s.logger.Debug("Blocked by robots.txt", zap.String("url", current))
			continue
		}

		page, err := s.fetcher.Fetch(ctx, current)
		s.polite.Delay(ctx)
		if err != nil {
			metrics.FetchErrors.Inc()
			s.logger.Warn("Page fetch failed", zap.String("url", current), zap.Error(err))
			continue
		}
		metrics.PagesFetched.Inc()
		if page.StatusCode != http.StatusOK {
			s.logger.Debug("Skipping page",
				zap.String("url", current),
				zap.Int("status", page.StatusCode),
			)
			continue
		}
		if !strings.Contains(strings.ToLower(page.ContentType), "text/html") {
			continue
		}

		base, err := url.Parse(page.FinalURL)
		if err != nil {
			continue
		}
		for _, link := range extractLinks(page.Body, base) {
			if !sameRegistrableDomain(seed, link) {
				continue
			}
			target := link.String()
			if search.IsDocumentURL(target) {
				if _, dup := seen[target]; dup {
					continue
				}
				seen[target] = struct{}{}
				results = append(results, search.Candidate{URL: target, Backend: s.Name()})
				if len(results) >= limit {
					break
				}
				continue
			}
			front.push(target)
		}
	}

	s.logger.Info("Site crawl finished",
		zap.String("seed", seedURL),
		zap.Int("visited", front.visitedCount()),
		zap.Int("candidates", len(results)),
	)
	return results, nil
}

// extractLinks pulls anchor targets out of an HTML body, resolved against
// the page URL.
func extractLinks(body []byte, base *url.URL) []*url.URL {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if link, ok := resolveLink(base, href); ok {
			links = append(links, link)
		}
	})
	return links
}
