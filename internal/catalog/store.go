package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store owns one Collection and its URL dedup set. Merge performs an atomic
// check-and-insert, so concurrent validators cannot append the same URL twice.
type Store struct {
	path   string
	logger *zap.Logger

	mu    sync.Mutex
	col   Collection
	known map[string]struct{}
	dirty bool
}

// Open loads the collection at path. A missing or corrupt file yields an
// empty collection rather than an error; a broken catalog must not abort a
// discovery run.
func Open(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		known:  make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("No existing collection; starting empty", zap.String("path", path))
	case err != nil:
		logger.Warn("Collection unreadable; starting empty", zap.String("path", path), zap.Error(err))
	default:
		var col Collection
		if err := json.Unmarshal(data, &col); err != nil {
			logger.Warn("Collection corrupt; starting empty", zap.String("path", path), zap.Error(err))
		} else {
			s.col = col
			for _, e := range col.PDFs {
				s.known[e.URL] = struct{}{}
			}
			logger.Info("Loaded existing collection",
				zap.String("path", path),
				zap.Int("entries", len(col.PDFs)),
			)
		}
	}

	if s.col.Metadata == nil {
		s.col.Metadata = &Metadata{SchemaVersion: SchemaVersion}
	}
	return s
}

// Contains reports whether url is already cataloged.
func (s *Store) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.known[url]
	return ok
}

// Merge appends entry unless its URL is already present. It returns true
// when the entry was applied.
func (s *Store) Merge(entry Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.known[entry.URL]; ok {
		return false
	}
	s.known[entry.URL] = struct{}{}
	s.col.PDFs = append(s.col.PDFs, entry)
	s.dirty = true
	return true
}

// Len returns the number of cataloged entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.col.PDFs)
}

// SetCategories replaces the category descriptors in the metadata block.
func (s *Store) SetCategories(cats []CategoryInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.col.Metadata == nil {
		s.col.Metadata = &Metadata{SchemaVersion: SchemaVersion}
	}
	s.col.Metadata.Categories = cats
	s.dirty = true
}

// Collection returns a snapshot copy of the catalog.
func (s *Store) Collection() Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.col
	out.PDFs = append([]Entry(nil), s.col.PDFs...)
	if s.col.Metadata != nil {
		meta := *s.col.Metadata
		out.Metadata = &meta
	}
	return out
}

// Persist stamps lastValidated and writes the collection with a
// write-then-rename so readers never observe a half-written catalog.
func (s *Store) Persist(now time.Time) error {
	s.mu.Lock()
	s.col.LastValidated = now.UTC()
	payload, err := json.MarshalIndent(s.col, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create collection dir %s: %w", dir, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write collection %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace collection %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.dirty = false
	entries := len(s.col.PDFs)
	s.mu.Unlock()
	s.logger.Info("Persisted collection", zap.String("path", s.path), zap.Int("entries", entries))
	return nil
}
