package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	wav "github.com/youpy/go-wav"
)

func (a *Archive) worker(ctx context.Context) {
	slog.Debug("Worker starting")
	defer func() {
		slog.Debug("Worker shutting down")
		a.workers.Done()
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Worker context cancelled")
			return

		case job, ok := <-a.queue:
			if !ok {
				slog.Debug("Worker queue closed")
				return
			}

			if err := a.processJob(ctx, job); err != nil {
				slog.Error("Failed to process transcription job",
					"error", err,
					"file", job.FilePath)
			}
		}
	}
}

func (a *Archive) processJob(ctx context.Context, job Job) error {
	slog.Info("Processing audio file", "file", job.FilePath)

	content, err := os.ReadFile(job.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("Audio file gone before processing", "file", job.FilePath)
			return nil
		}
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	format, err := wav.NewReader(bytes.NewReader(content)).Format()
	if err != nil {
		return fmt.Errorf("failed to parse WAV format: %w", err)
	}

	results, err := a.config.Recognizer.Recognize(ctx, content, int(format.SampleRate))
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	if len(results) == 0 {
		slog.Info("No transcribable content found", "file", job.FilePath)
		return nil
	}

	entry := Entry{
		ID:         uuid.New(),
		AudioFile:  filepath.Base(job.FilePath),
		Transcript: results[0].Transcript,
		Confidence: results[0].Confidence,
		CreatedAt:  time.Now(),
	}
	a.store(entry)
	a.broadcast(entry)

	slog.Info("Successfully transcribed audio",
		"file", entry.AudioFile,
		"text", entry.Transcript)

	return nil
}

func (a *Archive) store(entry Entry) {
	a.entries.Store(entry.ID.String(), &entry)
	a.orderMu.Lock()
	a.order = append(a.order, entry.ID.String())
	a.orderMu.Unlock()
}

func (a *Archive) broadcast(entry Entry) {
	msg := FeedMessage{
		Type:      "transcript",
		Timestamp: entry.CreatedAt,
		Payload:   entry,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal feed message", "error", err)
		return
	}

	a.subscribers.Range(func(key, _ interface{}) bool {
		conn := key.(*feedConn)
		select {
		case conn.send <- data:
		default:
			slog.Warn("Failed to send to subscriber - channel full")
		}
		return true
	})
}
