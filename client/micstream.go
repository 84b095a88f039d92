// Package client implements the two client-side operations: streaming
// microphone audio to the transcription relay and sending text to the
// synthesis relay for local playback.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/voicewire/voicewire/audio"
	"github.com/voicewire/voicewire/wire"
)

// RecordOptions configures one capture-and-transcribe exchange.
type RecordOptions struct {
	ServerAddr string
	Duration   float64
	SavePath   string
	Format     audio.Format
}

// RecordAndSend captures microphone audio for the configured duration,
// streaming each chunk to the relay as it is read, then returns the
// transcript. Capture and network writes share one loop, so a slow write
// delays the next read.
func RecordAndSend(ctx context.Context, opts RecordOptions) (string, error) {
	if opts.Format == (audio.Format{}) {
		opts.Format = audio.DefaultFormat
	}

	capture, err := audio.OpenCapture(opts.Format)
	if err != nil {
		return "", err
	}
	defer capture.Close()

	fmt.Printf("Connecting to server at %s...\n", opts.ServerAddr)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", opts.ServerAddr)
	if err != nil {
		return "", fmt.Errorf("failed to connect to server: %w", err)
	}
	defer conn.Close()

	if err := wire.SendHeader(conn, opts.Format.String()); err != nil {
		return "", err
	}

	fmt.Printf("Recording for %g seconds...\n", opts.Duration)

	var frames []byte
	chunks := capture.ChunksFor(opts.Duration)
	for i := 0; i < chunks; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		chunk, err := capture.ReadChunk()
		if err != nil {
			return "", err
		}
		frames = append(frames, chunk...)

		if _, err := conn.Write(chunk); err != nil {
			return "", fmt.Errorf("failed to send audio chunk: %w", err)
		}

		if i%10 == 0 {
			dots := strings.Repeat(".", i/10%4)
			fmt.Printf("\rRecording and sending%-3s", dots)
		}
	}
	fmt.Println("\nFinished recording!")

	if err := wire.EndPayload(conn, wire.EndAudio); err != nil {
		return "", err
	}

	fmt.Println("Waiting for transcription results...")
	transcript, err := wire.ReceiveUntilSentinel(conn, wire.EndTranscription)
	if err != nil {
		return "", err
	}

	if opts.SavePath != "" {
		if err := audio.SaveWav(opts.SavePath, opts.Format, frames); err != nil {
			slog.Error("Failed to save local recording", "error", err, "path", opts.SavePath)
		} else {
			fmt.Printf("Local recording saved as '%s'\n", opts.SavePath)
		}
	}

	return string(transcript), nil
}
