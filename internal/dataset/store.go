package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

// Snapshot is one immutable materialization of the cleaned dataset. Queries
// are pure functions over it, so a snapshot is safe to share across any
// number of concurrent read-only callers.
type Snapshot struct {
	Version  string
	LoadedAt time.Time
	Events   []pipeline.Event

	stakesOnce sync.Once
	stakes     []pipeline.Stake
}

// Stakes returns the expanded investor-stake set for this snapshot, computed
// in a single pass on first use and reused by all investor-centric queries.
func (s *Snapshot) Stakes() []pipeline.Stake {
	s.stakesOnce.Do(func() {
		s.stakes = pipeline.ExpandInvestors(s.Events)
	})
	return s.stakes
}

// Store owns the cached cleaned dataset for one input file. The cache is
// keyed on the file's identity (path, modification time, size): a change on
// disk invalidates the snapshot on the next access, and Invalidate drops it
// explicitly.
type Store struct {
	path string

	mu      sync.RWMutex
	snap    *Snapshot
	modTime time.Time
	size    int64
}

// NewStore creates a store for the dataset file at path. Nothing is loaded
// until the first Snapshot call.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the input file path this store watches.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns the current cleaned dataset, loading or reloading the
// input file when the cached copy is missing or stale.
func (s *Store) Snapshot() (*Snapshot, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset %s: %w", s.path, err)
	}

	s.mu.RLock()
	if s.snap != nil && s.modTime.Equal(info.ModTime()) && s.size == info.Size() {
		snap := s.snap
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock; another caller may have reloaded.
	if s.snap != nil && s.modTime.Equal(info.ModTime()) && s.size == info.Size() {
		return s.snap, nil
	}

	snap, err := s.load(info)
	if err != nil {
		return nil, err
	}

	s.snap = snap
	s.modTime = info.ModTime()
	s.size = info.Size()

	return snap, nil
}

// Invalidate drops the cached snapshot; the next access reloads from disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = nil
	s.modTime = time.Time{}
	s.size = 0

	slog.Info("Dataset cache invalidated", "path", s.path)
}

func (s *Store) load(info os.FileInfo) (*Snapshot, error) {
	start := time.Now()

	records, err := LoadCSV(s.path)
	if err != nil {
		return nil, err
	}

	events, err := pipeline.Normalize(records)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version:  fmt.Sprintf("%s@%d:%d", s.path, info.ModTime().UnixNano(), info.Size()),
		LoadedAt: time.Now(),
		Events:   events,
	}

	slog.Info("Dataset loaded",
		"path", s.path,
		"raw_rows", len(records),
		"events", len(events),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return snap, nil
}
