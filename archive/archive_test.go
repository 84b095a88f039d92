package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/voicewire/voicewire/audio"
	"github.com/voicewire/voicewire/transcribe"
)

func newTestArchive(t *testing.T, recognizer transcribe.Recognizer) *Archive {
	t.Helper()
	a, err := New(Config{
		WatchDir:   t.TempDir(),
		HTTPAddr:   ":0",
		Workers:    1,
		Recognizer: recognizer,
	})
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	t.Cleanup(func() { a.watcher.Close() })
	return a
}

func TestHandleFSEventQueuesWavFiles(t *testing.T) {
	a := newTestArchive(t, &transcribe.MockRecognizer{})

	err := a.handleFSEvent(fsnotify.Event{Name: "/drop/memo.wav", Op: fsnotify.Create})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case job := <-a.queue:
		if job.FilePath != "/drop/memo.wav" {
			t.Fatalf("unexpected job path %q", job.FilePath)
		}
	default:
		t.Fatal("expected a queued job")
	}
}

func TestHandleFSEventIgnoresOtherFiles(t *testing.T) {
	a := newTestArchive(t, &transcribe.MockRecognizer{})

	events := []fsnotify.Event{
		{Name: "/drop/partial.tmp", Op: fsnotify.Create},
		{Name: "/drop/notes.txt", Op: fsnotify.Create},
		{Name: "/drop/memo.wav", Op: fsnotify.Write},
	}
	for _, event := range events {
		if err := a.handleFSEvent(event); err != nil {
			t.Fatalf("unexpected error for %v: %v", event, err)
		}
	}

	select {
	case job := <-a.queue:
		t.Fatalf("unexpected job queued: %+v", job)
	default:
	}
}

func TestProcessJobStoresAndExposesTranscript(t *testing.T) {
	mock := &transcribe.MockRecognizer{Results: []transcribe.Result{
		{Transcript: "buy more coffee", Confidence: 0.87},
	}}
	a := newTestArchive(t, mock)

	path := filepath.Join(t.TempDir(), "memo.wav")
	pcm := make([]byte, 3200)
	if err := audio.SaveWav(path, audio.DefaultFormat, pcm); err != nil {
		t.Fatalf("failed to write test wav: %v", err)
	}

	if err := a.processJob(context.Background(), Job{FilePath: path, QueuedAt: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.LastSampleRate != 16000 {
		t.Fatalf("expected sample rate from WAV header, got %d", mock.LastSampleRate)
	}

	// List endpoint returns the stored entry.
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/transcripts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var entries []Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Transcript != "buy more coffee" || entries[0].AudioFile != "memo.wav" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}

	// Single-entry endpoint agrees.
	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/transcripts/"+entries[0].ID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestProcessJobSkipsEmptyResults(t *testing.T) {
	a := newTestArchive(t, &transcribe.MockRecognizer{})

	path := filepath.Join(t.TempDir(), "silence.wav")
	if err := audio.SaveWav(path, audio.DefaultFormat, make([]byte, 320)); err != nil {
		t.Fatalf("failed to write test wav: %v", err)
	}

	if err := a.processJob(context.Background(), Job{FilePath: path, QueuedAt: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	a.entries.Range(func(_, _ interface{}) bool { count++; return true })
	if count != 0 {
		t.Fatalf("expected no stored entries, got %d", count)
	}
}

// Shutdown stops the watcher before the job queue closes, so a file
// dropped mid-shutdown can never be queued onto a closed channel.
func TestStopWhileFilesArrive(t *testing.T) {
	dir := t.TempDir()
	a, err := New(Config{
		WatchDir:   dir,
		HTTPAddr:   "127.0.0.1:0",
		Workers:    2,
		Recognizer: &transcribe.MockRecognizer{},
	})
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	started := make(chan error, 1)
	go func() { started <- a.Start(ctx) }()

	dropping := make(chan struct{})
	go func() {
		defer close(dropping)
		for i := 0; i < 50; i++ {
			name := filepath.Join(dir, fmt.Sprintf("clip%03d.wav", i))
			if err := os.WriteFile(name, make([]byte, 4), 0o644); err != nil {
				return
			}
		}
	}()

	time.Sleep(20 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := a.Stop(stopCtx); err != nil {
		t.Fatalf("unexpected error from Stop: %v", err)
	}

	cancel()
	<-dropping
	<-started
}

func TestGetTranscriptNotFound(t *testing.T) {
	a := newTestArchive(t, &transcribe.MockRecognizer{})

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/transcripts/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
