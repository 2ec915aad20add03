package cache

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/hdwatch/internal/domain/model"
	"github.com/okian/hdwatch/pkg/metrics"
)

// defaultPath is the cache location relative to the working directory.
const defaultPath = "cache"

// Store persists and loads the baseline snapshot at a fixed path.
// The cache is advisory: a missing or undecodable file only means the
// caller must re-bootstrap from the live source.
type Store struct {
	path string
}

// NewStore creates a file-backed snapshot store with configuration options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		path: defaultPath,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the cached snapshot. Any failure, from a missing file to a
// truncated entry, is returned as-is for the caller to classify.
func (s *Store) Load(ctx context.Context) (model.Snapshot, error) {
	start := time.Now()
	f, err := os.Open(s.path)
	if err != nil {
		metrics.RecordCacheLoadError()
		return model.Snapshot{}, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	snap, err := DecodeSnapshot(bufio.NewReader(f))
	if err != nil {
		metrics.RecordCacheLoadError()
		return model.Snapshot{}, fmt.Errorf("decode cache %s: %w", s.path, err)
	}

	metrics.RecordCacheLoad(time.Since(start))
	_ = ctx
	return snap, nil
}

// Save writes the snapshot to a fresh temp file, flushes it to disk,
// and atomically renames it over the target, so a crash mid-write
// leaves the previous cache untouched.
func (s *Store) Save(ctx context.Context, snap model.Snapshot) error {
	start := time.Now()
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		metrics.RecordCacheSaveError()
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer func() {
		// No-ops once the rename succeeded.
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := bufio.NewWriter(tmp)
	if err := EncodeSnapshot(w, snap); err != nil {
		metrics.RecordCacheSaveError()
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := w.Flush(); err != nil {
		metrics.RecordCacheSaveError()
		return fmt.Errorf("flush cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		metrics.RecordCacheSaveError()
		return fmt.Errorf("sync cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		metrics.RecordCacheSaveError()
		return fmt.Errorf("close temp cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		metrics.RecordCacheSaveError()
		return fmt.Errorf("replace cache: %w", err)
	}

	metrics.RecordCacheSave(time.Since(start))
	_ = ctx
	return nil
}
