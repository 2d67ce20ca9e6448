// Package validate confirms that candidate URLs really are downloadable
// documents and extracts what metadata it can without fetching whole files.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdfexplorer/pdffinder/internal/pdfmeta"
	"github.com/pdfexplorer/pdffinder/internal/politeness"
)

// Rejection causes callers can branch on.
var (
	ErrNotDocument = errors.New("not a document content type")
	ErrTooLarge    = errors.New("document exceeds size ceiling")
)

const (
	defaultMaxSizeMB   = 50.0
	defaultPrefixBytes = 100 * 1024
	titleMinLen        = 10
	titleMaxLen        = 200
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Config bounds a validator.
type Config struct {
	// MaxSizeMB rejects documents whose declared size exceeds it (default 50).
	MaxSizeMB float64
	// PrefixBytes is how much of the body deep verification downloads
	// (default 100KB).
	PrefixBytes int64
	// Timeout bounds each request.
	Timeout time.Duration
	// DeepVerify downloads a body prefix and sniffs embedded metadata.
	DeepVerify bool
}

// Metadata is what validation learns about a document. Zero values mean
// unknown.
type Metadata struct {
	Title      string
	Author     string
	Year       string
	Pages      int
	SizeMB     float64
	StatusCode int
}

// Result reports one validation. Reason is set when OK is false; Meta keeps
// whatever was learned before rejection so partial successes survive.
type Result struct {
	OK     bool
	Meta   Metadata
	Reason error
}

// Validator checks candidate URLs. Failures never propagate as fatal; a bad
// candidate is simply not cataloged.
type Validator struct {
	client *http.Client
	polite politeness.Controller
	logger *zap.Logger
	cfg    Config
}

// New builds a Validator.
func New(cfg Config, polite politeness.Controller, logger *zap.Logger) *Validator {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = defaultMaxSizeMB
	}
	if cfg.PrefixBytes <= 0 {
		cfg.PrefixBytes = defaultPrefixBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Validator{
		client: &http.Client{Timeout: cfg.Timeout},
		polite: polite,
		logger: logger,
		cfg:    cfg,
	}
}

// Validate runs the header check, size filter, and optional deep
// verification for one URL.
func (v *Validator) Validate(ctx context.Context, rawURL string) Result {
	v.polite.Delay(ctx)

	meta := Metadata{}

	head, err := v.head(ctx, rawURL)
	if err != nil {
		return Result{Reason: fmt.Errorf("head request: %w", err)}
	}
	meta.StatusCode = head.status
	if head.status != http.StatusOK {
		return Result{Meta: meta, Reason: fmt.Errorf("head status %d", head.status)}
	}

	if !strings.Contains(head.contentType, "application/pdf") && !hasDocumentExtension(rawURL) {
		return Result{Meta: meta, Reason: fmt.Errorf("%w: %s", ErrNotDocument, head.contentType)}
	}

	if head.contentLength > 0 {
		meta.SizeMB = roundMB(head.contentLength)
		if meta.SizeMB > v.cfg.MaxSizeMB {
			return Result{Meta: meta, Reason: fmt.Errorf("%w: %.2f MB", ErrTooLarge, meta.SizeMB)}
		}
	}

	fallback := TitleFromURL(rawURL)
	meta.Title = fallback

	if v.cfg.DeepVerify {
		v.sniffMetadata(ctx, rawURL, fallback, &meta)
	}

	meta.Title = NormalizeTitle(meta.Title)
	return Result{OK: true, Meta: meta}
}

type headResult struct {
	status        int
	contentType   string
	contentLength int64
}

func (v *Validator) head(ctx context.Context, rawURL string) (headResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return headResult{}, err
	}
	req.Header.Set("User-Agent", v.polite.UserAgent())
	resp, err := v.client.Do(req)
	if err != nil {
		return headResult{}, err
	}
	defer resp.Body.Close()
	return headResult{
		status:        resp.StatusCode,
		contentType:   strings.ToLower(resp.Header.Get("Content-Type")),
		contentLength: resp.ContentLength,
	}, nil
}

// sniffMetadata downloads a bounded prefix into a scratch file and mines it
// for embedded metadata. Every failure here degrades to the URL-derived
// title; the candidate stays valid.
func (v *Validator) sniffMetadata(ctx context.Context, rawURL, fallback string, meta *Metadata) {
	data, err := v.downloadPrefix(ctx, rawURL)
	if err != nil {
		v.logger.Debug("Prefix download failed; keeping fallback title",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return
	}

	info, err := pdfmeta.Extract(data)
	if err != nil {
		v.logger.Debug("Metadata extraction failed; keeping fallback title",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return
	}

	if info.Title != "" {
		meta.Title = info.Title
	}
	meta.Author = info.Author
	meta.Year = info.Year
	meta.Pages = info.Pages

	if meta.Title == "" || meta.Title == fallback {
		if scanned := pdfmeta.PlausibleTitle(data, titleMinLen, titleMaxLen); scanned != "" {
			meta.Title = scanned
		}
	}
}

// downloadPrefix streams up to PrefixBytes of the body through a temp file.
// The scratch file is removed on every exit path.
func (v *Validator) downloadPrefix(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", v.polite.UserAgent())
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "pdffinder-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, v.cfg.PrefixBytes)); err != nil {
		return nil, fmt.Errorf("stream prefix: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind scratch file: %w", err)
	}
	data, err := io.ReadAll(tmp)
	if err != nil {
		return nil, fmt.Errorf("read scratch file: %w", err)
	}
	return data, nil
}

// TitleFromURL de-slugifies the final path segment into a readable title:
// separators become spaces and all-lowercase words get capitalized.
func TitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		if w == strings.ToLower(w) {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// NormalizeTitle collapses whitespace runs and truncates overlong titles
// with an ellipsis marker.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(whitespaceRun.ReplaceAllString(title, " "))
	if len(title) > titleMaxLen {
		title = title[:titleMaxLen-3] + "..."
	}
	return title
}

func hasDocumentExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(path.Ext(u.Path), ".pdf")
}

func roundMB(contentLength int64) float64 {
	return math.Round(float64(contentLength)/(1024*1024)*100) / 100
}
