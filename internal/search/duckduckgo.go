package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdfexplorer/pdffinder/internal/politeness"
)

const defaultDuckDuckGoBaseURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the HTML results endpoint. Result anchors wrap target
// URLs in a redirect link whose uddg parameter carries the real location.
type DuckDuckGo struct {
	BaseURL    string
	HTTPClient *http.Client
	Polite     politeness.Controller
	Logger     *zap.Logger
}

// NewDuckDuckGo builds the backend with the given politeness controller.
func NewDuckDuckGo(polite politeness.Controller, timeout time.Duration, logger *zap.Logger) *DuckDuckGo {
	return &DuckDuckGo{
		BaseURL:    defaultDuckDuckGoBaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Polite:     polite,
		Logger:     logger,
	}
}

// Name implements Backend.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Discover implements Backend by scraping one results page.
func (d *DuckDuckGo) Discover(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	query = EnsureFiletypeQualifier(query)

	endpoint, err := url.Parse(d.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo base url: %w", err)
	}
	q := endpoint.Query()
	q.Set("q", query)
	endpoint.RawQuery = q.Encode()

	d.Polite.Delay(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", d.Polite.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://duckduckgo.com/")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo results: %w", err)
	}

	var results []Candidate
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		target := unwrapRedirect(href)
		if target == "" || !IsDocumentURL(target) {
			return true
		}
		results = append(results, Candidate{URL: target, Backend: d.Name()})
		return len(results) < limit
	})

	d.Logger.Debug("DuckDuckGo search complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// unwrapRedirect resolves the uddg redirect wrapper to the target URL. A
// plain href is returned as-is.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
