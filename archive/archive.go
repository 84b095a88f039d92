// Package archive is the batch transcription monitor: it watches a drop
// directory for finished WAV files, transcribes them through the same
// recognizer the relay uses, and publishes the transcripts over HTTP and
// a WebSocket live feed.
package archive

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/voicewire/voicewire/transcribe"
)

// Config for the archive monitor.
type Config struct {
	// WatchDir is the directory WAV files are dropped into.
	WatchDir string

	// HTTPAddr serves the transcript API and the live feed.
	HTTPAddr string

	// Workers is the number of concurrent transcription workers.
	Workers int

	Recognizer transcribe.Recognizer
}

// Archive runs the watcher, the worker pool, and the HTTP server.
type Archive struct {
	config Config

	watcher *fsnotify.Watcher

	entries     sync.Map // map[string]*Entry, keyed by entry ID
	order       []string
	orderMu     sync.Mutex
	subscribers sync.Map // map[*feedConn]struct{}

	queue     chan Job
	watchDone chan struct{}
	workers   sync.WaitGroup

	server   *http.Server
	upgrader websocket.Upgrader
}

// New creates an Archive for the given config.
func New(cfg Config) (*Archive, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Recognizer == nil {
		return nil, fmt.Errorf("a recognizer is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	a := &Archive{
		config:    cfg,
		watcher:   watcher,
		queue:     make(chan Job, 100),
		watchDone: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	return a, nil
}

// Start begins watching and serving. It blocks until ctx is cancelled.
func (a *Archive) Start(ctx context.Context) error {
	for i := 0; i < a.config.Workers; i++ {
		a.workers.Add(1)
		go a.worker(ctx)
	}

	go a.watchFiles(ctx)

	return a.startHTTP(ctx)
}

// Stop drains the queue and shuts everything down. The watcher stops
// first so no event can enqueue a job after the queue closes.
func (a *Archive) Stop(ctx context.Context) error {
	watcherErr := a.watcher.Close()

	select {
	case <-a.watchDone:
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out")
	}

	close(a.queue)

	done := make(chan struct{})
	go func() {
		a.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out")
	}

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop HTTP server: %w", err)
		}
	}

	if watcherErr != nil {
		return fmt.Errorf("failed to close file watcher: %w", watcherErr)
	}

	return nil
}
