// Command sttserver is the transcription relay: it accepts PCM audio
// streamed by mic clients, forwards it to the Cloud Speech-to-Text API,
// and returns the transcript. With -archive it additionally watches a
// drop directory and transcribes WAV files placed there.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voicewire/voicewire/archive"
	"github.com/voicewire/voicewire/config"
	"github.com/voicewire/voicewire/relay"
	"github.com/voicewire/voicewire/transcribe"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	port := flag.Int("port", 12345, "Port to listen on")
	archiveDir := flag.String("archive", "", "Watch this directory and transcribe WAV files dropped into it")
	archiveAddr := flag.String("archive-http", ":8444", "HTTP address for the archive transcript feed")
	workDir := flag.String("workdir", "", "Directory for temporary WAV files (default: OS temp dir)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Debug("Received shutdown signal")
		cancel()
	}()

	recognizer := transcribe.NewGoogleRecognizer(cfg.GoogleAPIKey, cfg.Language)

	if *archiveDir != "" {
		monitor, err := archive.New(archive.Config{
			WatchDir:   *archiveDir,
			HTTPAddr:   *archiveAddr,
			Workers:    2,
			Recognizer: recognizer,
		})
		if err != nil {
			slog.Error("Failed to initialize archive monitor", "error", err)
			os.Exit(1)
		}

		go func() {
			if err := monitor.Start(ctx); err != nil {
				slog.Error("Archive monitor failed", "error", err)
			}
		}()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := monitor.Stop(stopCtx); err != nil {
				slog.Error("Failed to stop archive monitor", "error", err)
			}
		}()
	}

	server := transcribe.NewServer(relay.Config{
		Addr:        fmt.Sprintf(":%d", *port),
		MaxConns:    cfg.MaxConns,
		ConnTimeout: time.Duration(cfg.ConnTimeout * float64(time.Second)),
	}, recognizer, *workDir)

	if err := server.Serve(ctx); err != nil {
		slog.Error("Relay server failed", "error", err)
		os.Exit(1)
	}
}
