package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/cropline/psdgate/internal/catalog"
)

// Index wraps an in-memory Bleve index of catalog entries.
//
// All public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger

	mu      sync.RWMutex
	indexed map[catalog.Kind]int
}

// NewIndex creates an empty in-memory index.
func NewIndex(logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Index{
		index:   index,
		logger:  logger,
		indexed: make(map[catalog.Kind]int),
	}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Indexed reports whether kind has been indexed.
func (s *Index) Indexed(kind catalog.Kind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexed[kind]
	return ok
}

// IndexEntries indexes a whole catalog list in one batch. Re-indexing a
// kind overwrites documents with the same code.
func (s *Index) IndexEntries(kind catalog.Kind, entries []catalog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.index.NewBatch()
	for _, e := range entries {
		doc := NewDocument(kind, e)
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("commit %s batch: %w", kind, err)
	}

	s.indexed[kind] = len(entries)
	s.logger.Debug("catalog indexed", "kind", kind, "documents", len(entries))
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
