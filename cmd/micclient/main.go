// Command micclient records from the local microphone and streams the
// audio to a transcription relay, then prints the transcript.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/voicewire/voicewire/audio"
	"github.com/voicewire/voicewire/client"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	server := flag.String("server", "127.0.0.1", "Server IP address")
	port := flag.Int("port", 12345, "Server port")
	duration := flag.Float64("duration", 5, "Recording duration in seconds")
	save := flag.String("save", "", "Save recording locally to this path")
	listDevices := flag.Bool("list-devices", false, "List available audio input devices")
	flag.Parse()

	if *listDevices {
		devices, err := audio.ListInputDevices()
		if err != nil {
			slog.Error("Failed to list audio devices", "error", err)
			os.Exit(1)
		}

		fmt.Println("Available audio input devices:")
		for i, device := range devices {
			fmt.Printf("[%d] %s\n", i, device.Name)
			fmt.Printf("    Max Input Channels: %d\n", device.MaxInputChannels)
			fmt.Printf("    Default Sample Rate: %f\n", device.DefaultSampleRate)
			fmt.Println()
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nRecording stopped by user")
		cancel()
	}()

	transcript, err := client.RecordAndSend(ctx, client.RecordOptions{
		ServerAddr: fmt.Sprintf("%s:%d", *server, *port),
		Duration:   *duration,
		SavePath:   *save,
		Format:     audio.DefaultFormat,
	})
	if err != nil {
		slog.Error("Recording session failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("\nTranscription Results:")
	fmt.Println("---------------------")
	fmt.Println(transcript)
}
