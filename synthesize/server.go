package synthesize

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/voicewire/voicewire/relay"
	"github.com/voicewire/voicewire/wire"
)

// Server is the synthesis relay. Each connection runs request → synthesize
// → length header + audio + sentinel (or a single ERROR frame) → close.
type Server struct {
	Config      relay.Config
	Synthesizer Synthesizer

	registry *relay.Registry
}

func NewServer(cfg relay.Config, synthesizer Synthesizer) *Server {
	return &Server{
		Config:      cfg,
		Synthesizer: synthesizer,
		registry:    relay.NewRegistry(),
	}
}

func (s *Server) Registry() *relay.Registry {
	return s.registry
}

// Serve runs the accept loop until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return relay.Serve(ctx, s.Config, s.registry, s.HandleConn)
}

// HandleConn processes one synthesis exchange. Synthesis failures reach
// the client as an ERROR frame; transport failures only surface here.
func (s *Server) HandleConn(ctx context.Context, conn net.Conn) error {
	raw, err := wire.ReceiveUntilSentinel(conn, wire.EndRequest)
	if err != nil {
		return err
	}

	req := ParseRequest(string(raw))
	slog.Info("Synthesis request received",
		"voice", req.Voice,
		"language", req.Language,
		"rate", req.SpeakingRate,
		"textLength", len(req.Text),
		"remoteAddr", conn.RemoteAddr())

	content, err := s.Synthesizer.Synthesize(ctx, req)
	if err != nil {
		reply := fmt.Sprintf("%s Error synthesizing speech: %v", wire.ErrorPrefix, err)
		if _, werr := conn.Write([]byte(reply)); werr != nil {
			return fmt.Errorf("synthesis failed (%v); failed to send error reply: %w", err, werr)
		}
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}

	if _, err := fmt.Fprintf(conn, "%d\n", len(content)); err != nil {
		return fmt.Errorf("failed to send size header: %w", err)
	}
	if _, err := conn.Write(content); err != nil {
		return fmt.Errorf("failed to send audio data: %w", err)
	}
	if err := wire.EndPayload(conn, wire.EndSynthesis); err != nil {
		return err
	}

	slog.Info("Audio reply sent", "bytes", len(content), "remoteAddr", conn.RemoteAddr())
	return nil
}
