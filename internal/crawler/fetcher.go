package crawler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/pdfexplorer/pdffinder/internal/politeness"
)

// Page is one fetched response.
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// CollyFetcher implements Fetcher with a cloned Colly collector per request,
// rotating the user agent through the politeness controller.
type CollyFetcher struct {
	base   *colly.Collector
	polite politeness.Controller
	logger *zap.Logger
}

// NewCollyFetcher constructs the fetcher with the given request timeout.
func NewCollyFetcher(timeout time.Duration, polite politeness.Controller, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector()
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
	})
	base.SetRequestTimeout(timeout)
	return &CollyFetcher{base: base, polite: polite, logger: logger}
}

// Fetch retrieves rawURL. HTTP error statuses come back as a Page with the
// status set and no error; transport failures come back as errors.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	collector := f.base.Clone()
	collector.UserAgent = f.polite.UserAgent()

	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() { resultCh <- res })
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{page: pageFromResponse(rawURL, r)})
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			send(fetchResult{page: pageFromResponse(rawURL, r)})
			return
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return Page{}, err
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return Page{}, err
		}
		return res.page, res.err
	default:
		return Page{}, errors.New("fetch produced no result")
	}
}

func pageFromResponse(rawURL string, r *colly.Response) Page {
	page := Page{
		URL:        rawURL,
		FinalURL:   rawURL,
		StatusCode: r.StatusCode,
		Body:       append([]byte{}, r.Body...),
	}
	if r.Request != nil && r.Request.URL != nil {
		page.FinalURL = r.Request.URL.String()
	}
	if r.Headers != nil {
		page.ContentType = r.Headers.Get("Content-Type")
	}
	return page
}

type fetchResult struct {
	page Page
	err  error
}
