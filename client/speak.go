package client

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/voicewire/voicewire/audio"
	"github.com/voicewire/voicewire/synthesize"
	"github.com/voicewire/voicewire/wire"
)

// SpeakOptions configures one text-to-speech exchange. Empty Voice and
// Language and a zero Rate fall back to server-side defaults.
type SpeakOptions struct {
	ServerAddr string
	Text       string
	Voice      string
	Language   string
	Rate       float64
	SavePath   string
}

// Speak sends the text to the synthesis relay, buffers the returned
// audio to a temporary file, optionally copies it to SavePath, plays it,
// and removes the temporary file. A *wire.RemoteError is returned when
// the server replied with an ERROR frame.
func Speak(ctx context.Context, opts SpeakOptions) error {
	fmt.Printf("Connecting to server at %s...\n", opts.ServerAddr)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", opts.ServerAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer conn.Close()

	request := synthesize.EncodeRequest(opts.Text, opts.Voice, opts.Language, opts.Rate)
	if _, err := conn.Write([]byte(request)); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	if err := wire.EndPayload(conn, wire.EndRequest); err != nil {
		return err
	}

	fmt.Println("Waiting for speech synthesis...")
	size, rest, err := wire.ReadSizeLine(conn)
	if err != nil {
		return err
	}
	fmt.Printf("Expecting %d bytes of audio data\n", size)

	data, err := wire.ReceiveBody(conn, rest, wire.EndSynthesis, size)
	if err != nil {
		return err
	}

	tempFile, err := os.CreateTemp("", "voicewire-*.wav")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempName := tempFile.Name()
	defer os.Remove(tempName)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to buffer audio: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, data, 0644); err != nil {
			return fmt.Errorf("failed to save audio to %s: %w", opts.SavePath, err)
		}
		fmt.Printf("Audio saved to %s\n", opts.SavePath)
	}

	fmt.Println("Playing audio...")
	return audio.PlayWavFile(tempName)
}
