package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const warmDebounce = 200 * time.Millisecond

// Watch re-parses the snapshot shortly after the file is replaced, so the
// first request after an ingestion run does not pay for parsing.
// It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create snapshot watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: an atomic replace swaps the file's inode
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.logger.Info("watching snapshot", "path", s.path)

	target := filepath.Clean(s.path)
	timer := time.NewTimer(warmDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				timer.Reset(warmDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("snapshot watcher error", "error", err)

		case <-timer.C:
			if _, err := s.Load(ctx); err != nil {
				s.logger.Warn("snapshot reload failed", "error", err)
				continue
			}
			s.logger.Info("snapshot reloaded", "path", s.path)
		}
	}
}
