package store

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn after every change to the file at path until ctx is done.
// The parent directory is watched so atomic renames are seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func()) error {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return &StorageError{Op: "watch", Path: path, Err: err}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &StorageError{Op: "watch", Path: path, Err: err}
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return &StorageError{Op: "watch", Path: path, Err: err}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("store changed", "path", path, "op", event.Op.String())
				fn()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("store watcher error", "path", path, "err", err)
		}
	}
}
