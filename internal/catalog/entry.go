// Package catalog defines the persisted document catalog consumed by the
// viewer application: one Collection holding deduplicated Entry records.
package catalog

import (
	"fmt"
	"hash/fnv"
	"time"
)

// DateLayout is the wire format for dateAdded/lastChecked.
const DateLayout = "2006-01-02"

// SchemaVersion is written into new collections.
const SchemaVersion = "1.0"

// Entry is one cataloged document. Field names follow the viewer's JSON
// schema, so renames here break the downstream reader.
type Entry struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	Categories    []string `json:"categories"`
	Source        string   `json:"source"`
	YearPublished string   `json:"yearPublished,omitempty"`
	Tags          []string `json:"tags"`
	IsAvailable   bool     `json:"isAvailable"`
	DateAdded     string   `json:"dateAdded"`
	LastChecked   string   `json:"lastChecked"`
	LastStatus    int      `json:"lastStatus"`
	Pages         int      `json:"pages,omitempty"`
	SizeMB        float64  `json:"sizeMB,omitempty"`
}

// CategoryInfo describes one category in the collection metadata block.
type CategoryInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Metadata carries catalog-level information.
type Metadata struct {
	SchemaVersion string         `json:"schemaVersion"`
	Categories    []CategoryInfo `json:"categories,omitempty"`
}

// Collection is the full persisted catalog. PDFs keeps discovery order;
// no two entries share a URL.
type Collection struct {
	LastValidated time.Time `json:"lastValidated"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	PDFs          []Entry   `json:"pdfs"`
}

// EntryID derives the stable identifier for a URL. The same URL always maps
// to the same ID across runs, which is what makes re-validation idempotent.
func EntryID(url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	return fmt.Sprintf("pdf%07d", h.Sum64()%10000000)
}

// Normalize fills schema defaults on an entry so the persisted JSON always
// carries the fields the viewer expects.
func Normalize(e Entry, now time.Time) Entry {
	if e.ID == "" {
		e.ID = EntryID(e.URL)
	}
	if e.Title == "" {
		e.Title = "Untitled PDF"
	}
	if e.Author == "" {
		e.Author = "Unknown"
	}
	if e.Source == "" {
		e.Source = "unknown"
	}
	if e.Categories == nil {
		e.Categories = []string{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	today := now.Format(DateLayout)
	if e.DateAdded == "" {
		e.DateAdded = today
	}
	if e.LastChecked == "" {
		e.LastChecked = today
	}
	if e.LastStatus == 0 {
		e.LastStatus = 200
	}
	return e
}
