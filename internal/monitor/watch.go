package monitor

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch runs until the context is cancelled, recomputing the sidecar of any
// tracked file as soon as it is created or written. New identifier
// directories are picked up as they appear.
func (m *Monitor) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, m.lake.Root, m.lake.MetadataDir); err != nil {
		return err
	}

	slog.Info("watching data lake", "root", m.lake.Root)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			m.handleEvent(watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Monitor) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addWatchRecursive(watcher, event.Name, m.lake.MetadataDir); err != nil {
				slog.Error("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// Sidecar writes fire their own events; skip them to avoid loops.
	if m.store.IsSidecar(event.Name) {
		return
	}

	rel, err := filepath.Rel(m.lake.Root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if !m.lake.InScope(rel) {
		return
	}

	if _, err := m.updateOne(rel); err != nil {
		slog.Error("failed to update sidecar", "path", rel, "error", err)
		return
	}
	slog.Info("sidecar updated", "path", rel)
}

func addWatchRecursive(watcher *fsnotify.Watcher, dir string, skip string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p == skip {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
