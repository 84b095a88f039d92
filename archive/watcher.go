package archive

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

func (a *Archive) watchFiles(ctx context.Context) {
	defer close(a.watchDone)

	if err := a.watcher.Add(a.config.WatchDir); err != nil {
		slog.Error("Failed to start watching drop directory",
			"error", err,
			"path", a.config.WatchDir)
		return
	}

	slog.Info("Started watching drop directory", "path", a.config.WatchDir)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-a.watcher.Events:
			if !ok {
				return
			}

			if err := a.handleFSEvent(event); err != nil {
				slog.Error("Failed to handle file system event",
					"error", err,
					"event", event)
			}

		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

func (a *Archive) handleFSEvent(event fsnotify.Event) error {
	// Files are dropped complete; only creations of .wav files matter.
	if event.Op != fsnotify.Create {
		return nil
	}
	name := filepath.Base(event.Name)
	if strings.HasSuffix(name, ".tmp") || !strings.HasSuffix(name, ".wav") {
		return nil
	}

	job := Job{
		FilePath: event.Name,
		QueuedAt: time.Now(),
	}

	select {
	case a.queue <- job:
		slog.Info("Queued new audio file for transcription", "file", name)
	default:
		return fmt.Errorf("job queue is full")
	}

	return nil
}
