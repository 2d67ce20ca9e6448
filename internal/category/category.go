// Package category loads the category configuration shared with the viewer
// application and matches free text against category keywords.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Category is one entry in the shared categories.json document.
type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Color    string   `json:"color,omitempty"`
}

// Config is the full categories.json document.
type Config struct {
	Version        string     `json:"version"`
	LastUpdated    string     `json:"lastUpdated"`
	Categories     []Category `json:"categories"`
	SearchSuffixes []string   `json:"searchSuffixes"`
}

// DefaultConfig is used when no configuration file exists yet.
func DefaultConfig(now time.Time) Config {
	return Config{
		Version:     "1.0",
		LastUpdated: now.Format(time.RFC3339),
		Categories: []Category{
			{
				ID:       "ai",
				Name:     "Artificial Intelligence",
				Keywords: []string{"machine learning", "AI"},
				Color:    "#3498db",
			},
			{
				ID:       "programming",
				Name:     "Programming",
				Keywords: []string{"javascript", "python"},
				Color:    "#2ecc71",
			},
		},
		SearchSuffixes: []string{"filetype:pdf"},
	}
}

// Load reads the category configuration at path. A missing file yields the
// default configuration; a corrupt file is an error because silently
// replacing a curated category list would lose data on the next save.
func Load(path string, logger *zap.Logger) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Category config not found; using defaults", zap.String("path", path))
		return DefaultConfig(time.Now()), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read category config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse category config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration back with a fresh lastUpdated stamp.
func Save(path string, cfg Config, now time.Time) error {
	cfg.LastUpdated = now.Format(time.RFC3339)
	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal category config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write category config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace category config: %w", err)
	}
	return nil
}

// Detect returns the IDs of every category with a keyword contained in text,
// case-insensitively, preserving configuration order.
func (c Config) Detect(text string) []string {
	lower := strings.ToLower(text)
	var matches []string
	for _, cat := range c.Categories {
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				matches = append(matches, cat.ID)
				break
			}
		}
	}
	return matches
}

// SearchQueries combines a category's keywords with the configured search
// suffixes into ready-to-run queries.
func (c Config) SearchQueries(categoryID string) []string {
	var cat *Category
	for i := range c.Categories {
		if c.Categories[i].ID == categoryID {
			cat = &c.Categories[i]
			break
		}
	}
	if cat == nil {
		return nil
	}
	queries := make([]string, 0, len(cat.Keywords)*len(c.SearchSuffixes))
	for _, kw := range cat.Keywords {
		for _, suffix := range c.SearchSuffixes {
			queries = append(queries, fmt.Sprintf("%s %s", kw, suffix))
		}
	}
	return queries
}

// ByID returns the category with the given ID.
func (c Config) ByID(categoryID string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == categoryID {
			return cat, true
		}
	}
	return Category{}, false
}
