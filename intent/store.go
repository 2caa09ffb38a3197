package intent

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when an intent id cannot be resolved.
var ErrNotFound = errors.New("intent not found")

// Store reads intents from a YAML file. Every load re-reads the file
// so guard checks always see the current scope; the file is small and
// callers tolerate concurrent external edits.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store over the given intent source file.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the location of the intent source file.
func (s *Store) Path() string {
	return s.path
}

type document struct {
	Intents []Intent `yaml:"intents"`
}

// LoadAll returns every intent in the source, in document order.
// A missing or malformed source degrades to an empty set: nothing
// is authorized, downstream gating denies everything.
func (s *Store) LoadAll(ctx context.Context) []Intent {
	if err := ctx.Err(); err != nil {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug("intent source unavailable", "path", s.path, "error", err)
		return nil
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("intent source malformed, treating as empty", "path", s.path, "error", err)
		return nil
	}

	seen := make(map[string]int, len(doc.Intents))
	for i, it := range doc.Intents {
		if it.ID == "" {
			s.logger.Warn("intent missing id", "index", i, "name", it.Name)
			continue
		}
		if first, dup := seen[it.ID]; dup {
			// first occurrence wins on lookup; the rest are anomalies
			s.logger.Warn("duplicate intent id", "id", it.ID, "first_index", first, "index", i)
			continue
		}
		seen[it.ID] = i
		for _, pattern := range it.OwnedScope {
			if !doublestar.ValidatePattern(pattern) {
				s.logger.Warn("invalid scope pattern", "id", it.ID, "pattern", pattern)
			}
		}
	}
	return doc.Intents
}

// FindByID resolves an intent by id. With duplicate ids the first
// occurrence in source order wins.
func (s *Store) FindByID(ctx context.Context, id string) (Intent, error) {
	for _, it := range s.LoadAll(ctx) {
		if it.ID == id {
			return it, nil
		}
	}
	return Intent{}, ErrNotFound
}
