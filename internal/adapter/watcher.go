package adapter

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// Watcher reports files written or created below a set of directories.
type Watcher interface {
	// Watch streams changed file paths until ctx is cancelled, then closes
	// the channel.
	Watch(ctx context.Context, dirs []m.Path) (<-chan m.Path, error)
}

// FSNotifyWatcher implements Watcher with fsnotify. Directories are watched
// recursively, including ones created after Watch starts.
type FSNotifyWatcher struct{}

// NewFSNotifyWatcher constructs an FSNotifyWatcher.
func NewFSNotifyWatcher() *FSNotifyWatcher {
	return &FSNotifyWatcher{}
}

// Watch implements Watcher.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dirs []m.Path) (<-chan m.Path, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := addTree(watcher, string(dir)); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	changes := make(chan m.Path)

	go func() {
		defer close(changes)
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				if event.Has(fsnotify.Create) {
					if err := addTree(watcher, event.Name); err != nil {
						slog.Debug("Not watching new path", "path", event.Name, "error", err)
					}
				}

				select {
				case <-ctx.Done():
					return
				case changes <- m.Path(event.Name):
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				slog.Warn("Watcher error", "error", err)
			}
		}
	}()

	return changes, nil
}

// addTree watches root and every directory below it. Files are ignored.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		if path != root && skippedDirs[entry.Name()] {
			return filepath.SkipDir
		}

		return watcher.Add(path)
	})
}
