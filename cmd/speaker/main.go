// Command speaker sends text to a synthesis relay and plays the returned
// speech on the local output device. Without -text it enters an
// interactive line-command session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/voicewire/voicewire/client"
	"github.com/voicewire/voicewire/wire"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	server := flag.String("server", "127.0.0.1", "Server IP address")
	port := flag.Int("port", 12345, "Server port")
	text := flag.String("text", "", "Text to synthesize (empty enters interactive mode)")
	voice := flag.String("voice", "", "Voice name (e.g., en-US-Neural2-F)")
	language := flag.String("language", "", "Language code (e.g., en-US)")
	rate := flag.Float64("rate", 0, "Speaking rate (server default when unset)")
	save := flag.String("save", "", "Save audio to this path")
	interactive := flag.Bool("interactive", false, "Enter interactive mode")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopped by user")
		cancel()
	}()

	serverAddr := fmt.Sprintf("%s:%d", *server, *port)

	if *interactive || *text == "" {
		if err := client.RunInteractive(ctx, serverAddr, os.Stdin, os.Stdout); err != nil {
			slog.Error("Interactive session failed", "error", err)
			os.Exit(1)
		}
		return
	}

	err := client.Speak(ctx, client.SpeakOptions{
		ServerAddr: serverAddr,
		Text:       *text,
		Voice:      *voice,
		Language:   *language,
		Rate:       *rate,
		SavePath:   *save,
	})
	if err != nil {
		var remote *wire.RemoteError
		if errors.As(err, &remote) {
			fmt.Println(remote.Message)
			os.Exit(1)
		}
		slog.Error("Synthesis request failed", "error", err)
		os.Exit(1)
	}
}
