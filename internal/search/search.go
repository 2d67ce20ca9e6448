// Package search defines the discovery backends that produce candidate
// document URLs for the validation pipeline.
package search

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// Candidate is a URL produced by a backend, not yet validated.
type Candidate struct {
	URL     string
	Backend string
}

// Backend is a polymorphic source of candidate URLs. Implementations must
// treat network and parse failures as empty results with an error the caller
// can log; a failing backend never aborts the run.
type Backend interface {
	Name() string
	// Discover returns up to limit candidate URLs for query. For crawling
	// backends the query is the seed URL.
	Discover(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// filetypeQualifier narrows engine results to documents.
const filetypeQualifier = "filetype:pdf"

// EnsureFiletypeQualifier appends the document qualifier unless the query
// already carries one.
func EnsureFiletypeQualifier(query string) string {
	if strings.Contains(strings.ToLower(query), filetypeQualifier) {
		return query
	}
	return query + " " + filetypeQualifier
}

// IsDocumentURL reports whether the URL path ends in a recognized document
// extension. This is a cheap pre-filter; real verification happens in the
// validator.
func IsDocumentURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(path.Ext(u.Path), ".pdf")
}
