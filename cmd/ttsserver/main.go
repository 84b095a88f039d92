// Command ttsserver is the synthesis relay: it accepts text requests,
// forwards them to the Cloud Text-to-Speech API, and streams the audio
// back with a length header.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/voicewire/voicewire/config"
	"github.com/voicewire/voicewire/relay"
	"github.com/voicewire/voicewire/synthesize"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	port := flag.Int("port", 12345, "Port to listen on")
	encoding := flag.String("encoding", "linear16", "Reply audio encoding: linear16 or mp3")
	listVoices := flag.Bool("list-voices", false, "List all available voices at startup")
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

	synthesizer := synthesize.NewGoogleSynthesizer(cfg.GoogleAPIKey, synthesize.Encoding(*encoding))

	if *listVoices {
		voices, err := synthesizer.ListVoices(ctx)
		if err != nil {
			slog.Error("Failed to list voices", "error", err)
		} else {
			fmt.Println("Available voices:")
			for _, voice := range voices {
				fmt.Printf("Name: %s\n", voice.Name)
				fmt.Printf("  Language codes: %s\n", strings.Join(voice.LanguageCodes, ", "))
				fmt.Printf("  Gender: %s\n", voice.Gender)
				fmt.Printf("  Natural sample rate: %dHz\n", voice.SampleRate)
				fmt.Println()
			}
		}
	}

	server := synthesize.NewServer(relay.Config{
		Addr:        fmt.Sprintf(":%d", *port),
		MaxConns:    cfg.MaxConns,
		ConnTimeout: time.Duration(cfg.ConnTimeout * float64(time.Second)),
	}, synthesizer)

	if err := server.Serve(ctx); err != nil {
		slog.Error("Relay server failed", "error", err)
		os.Exit(1)
	}
}
