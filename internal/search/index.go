package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/relprep/relprep/internal/domain"
	"github.com/relprep/relprep/internal/logger"
)

// Index wraps a Bleve index of releases. All methods are safe for
// concurrent use.
type Index struct {
	index  bleve.Index
	logger *logger.Logger
	mu     sync.RWMutex
}

// Options configures the index.
type Options struct {
	// DataPath is the directory holding the index. Empty means in memory.
	DataPath string
	Logger   *logger.Logger
}

// mappingVersion changes whenever buildIndexMapping does; a stored index
// with another version is dropped and recreated empty.
const mappingVersion = "1"

// Open creates or opens the index.
func Open(opts Options) (*Index, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.Component("search")

	if opts.DataPath == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		return &Index{index: idx, logger: log}, nil
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	indexPath := filepath.Join(opts.DataPath, "releases.bleve")
	versionPath := filepath.Join(opts.DataPath, "releases.version")

	var idx bleve.Index
	if _, err := os.Stat(indexPath); err == nil {
		version, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil || string(version) != mappingVersion:
			log.Info("search mapping changed, recreating index", "new_version", mappingVersion)
		default:
			idx, err = bleve.Open(indexPath)
			if err != nil {
				log.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
			}
		}
		if idx == nil {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, fmt.Errorf("remove old index: %w", err)
			}
		}
	}

	if idx == nil {
		var err error
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			log.Warn("failed to write search version file", "error", err)
		}
		log.Info("created search index", "path", indexPath)
	}

	return &Index{index: idx, logger: log}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexRelease adds or replaces the document for r.
func (s *Index) IndexRelease(_ context.Context, r *domain.Release) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := ReleaseToDocument(r)
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexReleases indexes many releases in batches.
func (s *Index) IndexReleases(_ context.Context, releases []*domain.Release) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500
	for start := 0; start < len(releases); start += batchSize {
		end := min(start+batchSize, len(releases))
		batch := s.index.NewBatch()
		for _, r := range releases[start:end] {
			doc := ReleaseToDocument(r)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// DeleteRelease removes the document for id.
func (s *Index) DeleteRelease(_ context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the number of indexed releases.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
