// Package metrics exposes Prometheus collectors for the discovery pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched counts pages fetched by the site crawler.
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdffinder_pages_fetched_total",
		Help: "Total number of pages fetched while crawling sites.",
	})
	// FetchErrors counts failed page fetches.
	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdffinder_fetch_errors_total",
		Help: "Total number of failed HTTP fetches.",
	})
	// CandidatesDiscovered counts candidate URLs per backend.
	CandidatesDiscovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdffinder_candidates_discovered_total",
		Help: "Total number of candidate URLs produced, labeled by backend.",
	}, []string{"backend"})
	// Validations counts validation attempts by outcome.
	Validations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdffinder_validations_total",
		Help: "Total number of URL validations, labeled by outcome.",
	}, []string{"outcome"})
	// EntriesMerged counts entries appended to the collection.
	EntriesMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdffinder_entries_merged_total",
		Help: "Total number of new entries merged into the collection.",
	})
)

// Validation outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
