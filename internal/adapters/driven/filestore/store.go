// Package filestore keeps the knowledge snapshot in a JSON file on local disk.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SnapshotStore = (*Store)(nil)

// Store loads the snapshot file and caches the parsed result.
//
// The cache is keyed on the file's identity, modification time and size,
// and every Load re-stats the file, so a replaced file is always picked up
// by the next request.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot *domain.KnowledgeSnapshot
	info     os.FileInfo
}

// NewStore creates a store for the snapshot at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Location returns the snapshot path.
func (s *Store) Location() string {
	return s.path
}

// Load returns the snapshot, parsing the file only when it changed.
func (s *Store) Load(ctx context.Context) (*domain.KnowledgeSnapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}

	if cached := s.cachedFor(info); cached != nil {
		return cached, nil
	}

	snapshot := domain.NewKnowledgeSnapshot()
	if err := json.NewDecoder(f).Decode(snapshot); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrSnapshotUnavailable, s.path, err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.info = info
	s.mu.Unlock()

	s.logger.Debug("snapshot loaded", "path", s.path, "size", info.Size(), "modified", info.ModTime())
	return snapshot, nil
}

// cachedFor returns the cached snapshot if it was parsed from this exact file version.
func (s *Store) cachedFor(info os.FileInfo) *domain.KnowledgeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil || s.info == nil {
		return nil
	}
	if !os.SameFile(s.info, info) ||
		!s.info.ModTime().Equal(info.ModTime()) ||
		s.info.Size() != info.Size() {
		return nil
	}
	return s.snapshot
}

// Save writes the snapshot as indented JSON to a temporary file in the same
// directory and renames it over the target.
func (s *Store) Save(ctx context.Context, snapshot *domain.KnowledgeSnapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	committed = true

	s.logger.Info("snapshot saved", "path", s.path)
	return nil
}
