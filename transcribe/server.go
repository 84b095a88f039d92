package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/voicewire/voicewire/audio"
	"github.com/voicewire/voicewire/relay"
	"github.com/voicewire/voicewire/wire"
)

// Server is the transcription relay. Each connection runs the fixed
// sequence header → ACK → payload → recognize → transcript → close.
type Server struct {
	Config     relay.Config
	Recognizer Recognizer

	// WorkDir holds the per-connection temporary WAV files. Empty means
	// the OS temp directory.
	WorkDir string

	registry *relay.Registry
}

func NewServer(cfg relay.Config, recognizer Recognizer, workDir string) *Server {
	return &Server{
		Config:     cfg,
		Recognizer: recognizer,
		WorkDir:    workDir,
		registry:   relay.NewRegistry(),
	}
}

// Registry exposes the live-connection registry, used by the archive
// status endpoint.
func (s *Server) Registry() *relay.Registry {
	return s.registry
}

// Serve runs the accept loop until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return relay.Serve(ctx, s.Config, s.registry, s.HandleConn)
}

// HandleConn processes one client exchange. Errors are returned to the
// accept loop for uniform logging; where possible a textual ERROR frame
// is also sent so the client can tell failure from silence.
func (s *Server) HandleConn(ctx context.Context, conn net.Conn) error {
	header, err := wire.ReadHeader(conn)
	if err != nil {
		return err
	}

	format, err := audio.ParseFormat(header)
	if err != nil {
		return err
	}
	slog.Info("Audio format received",
		"sampleRate", format.SampleRate,
		"channels", format.Channels,
		"sampleWidth", format.SampleWidth,
		"remoteAddr", conn.RemoteAddr())

	if err := wire.Acknowledge(conn); err != nil {
		return err
	}

	pcm, err := wire.ReceiveUntilSentinel(conn, wire.EndAudio)
	if err != nil {
		return err
	}
	slog.Info("Audio payload received", "bytes", len(pcm), "remoteAddr", conn.RemoteAddr())

	wavPath := s.tempWavPath(conn.RemoteAddr())
	if err := audio.SaveWav(wavPath, format, pcm); err != nil {
		return err
	}
	defer os.Remove(wavPath)

	content, err := os.ReadFile(wavPath)
	if err != nil {
		return fmt.Errorf("failed to read back %s: %w", wavPath, err)
	}

	results, err := s.Recognizer.Recognize(ctx, content, format.SampleRate)
	if err != nil {
		reply := fmt.Sprintf("%s failed to transcribe audio: %v", wire.ErrorPrefix, err)
		if _, werr := conn.Write([]byte(reply)); werr != nil {
			return fmt.Errorf("transcription failed (%v); failed to send error reply: %w", err, werr)
		}
		if werr := wire.EndPayload(conn, wire.EndTranscription); werr != nil {
			return fmt.Errorf("transcription failed (%v); failed to send end marker: %w", err, werr)
		}
		return fmt.Errorf("failed to transcribe audio: %w", err)
	}

	transcript := FormatResults(results)
	slog.Info("Transcription completed", "results", len(results), "remoteAddr", conn.RemoteAddr())

	if _, err := conn.Write([]byte(transcript)); err != nil {
		return fmt.Errorf("failed to send transcript: %w", err)
	}
	return wire.EndPayload(conn, wire.EndTranscription)
}

// tempWavPath derives the temporary filename from the peer address.
// Concurrent connections from a reused peer port can collide.
func (s *Server) tempWavPath(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		host, port = addr.String(), "0"
	}
	host = strings.ReplaceAll(host, ":", "_")

	dir := s.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("received_%s_%s.wav", host, port))
}
