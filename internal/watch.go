package internal

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the router whenever the route file changes, until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are handled. Reload errors are logged and keep the previous router.
func (a *App) Watch(ctx context.Context) error {
	if a.routesFile == "" {
		return ErrNoRoutes
	}

	path, err := filepath.Abs(a.routesFile)
	if err != nil {
		return errors.Join(ErrWatch, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(ErrWatch, err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Join(ErrWatch, err)
	}

	a.logger.InfoContext(ctx, "watching route file", slog.String("file", path))

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != path {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(a.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				a.logger.DebugContext(ctx, "route file changed", slog.String("event", event.Op.String()))
				_ = a.Reload(ctx)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.ErrorContext(ctx, "watcher error", slog.Any("error", err))
		}
	}
}
