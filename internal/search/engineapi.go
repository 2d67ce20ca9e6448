package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdfexplorer/pdffinder/internal/politeness"
)

// EngineAPI queries a structured metasearch endpoint (a SearxNG-style JSON
// API). The endpoint is optional deployment infrastructure: when no base URL
// is configured the backend reports that once and then stays silent, so a
// run configured with every backend still succeeds without it.
type EngineAPI struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Polite     politeness.Controller
	Logger     *zap.Logger

	warnOnce sync.Once
}

// NewEngineAPI builds the backend. baseURL may be empty.
func NewEngineAPI(baseURL, apiKey string, polite politeness.Controller, timeout time.Duration, logger *zap.Logger) *EngineAPI {
	return &EngineAPI{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
		Polite:     polite,
		Logger:     logger,
	}
}

// Name implements Backend.
func (e *EngineAPI) Name() string { return "engine" }

// Discover implements Backend against the /search endpoint.
func (e *EngineAPI) Discover(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if e.BaseURL == "" {
		e.warnOnce.Do(func() {
			e.Logger.Warn("Search engine API not configured; backend disabled for this run")
		})
		return nil, nil
	}
	if limit <= 0 {
		return nil, nil
	}
	query = EnsureFiletypeQualifier(query)

	endpoint, err := url.Parse(e.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse engine base url: %w", err)
	}
	if !strings.HasSuffix(endpoint.Path, "/search") {
		endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/search"
	}
	q := endpoint.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("count", fmt.Sprintf("%d", limit))
	if e.APIKey != "" {
		q.Set("apikey", e.APIKey)
	}
	endpoint.RawQuery = q.Encode()

	e.Polite.Delay(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	req.Header.Set("User-Agent", e.Polite.UserAgent())

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("engine status %d", resp.StatusCode)
	}

	var body engineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode engine response: %w", err)
	}

	results := make([]Candidate, 0, limit)
	for _, r := range body.Results {
		raw := strings.TrimSpace(r.URL)
		if raw == "" || !IsDocumentURL(raw) {
			continue
		}
		results = append(results, Candidate{URL: raw, Backend: e.Name()})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

type engineResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}
