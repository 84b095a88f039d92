package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/voicewire/voicewire/synthesize"
	"github.com/voicewire/voicewire/wire"
)

// Session holds the interactive mode's mutable defaults. It is an
// explicit value: each command application and each send returns the
// session to use for the next iteration, so there is no ambient state.
type Session struct {
	Voice    string
	Language string
	Rate     float64

	// SavePath applies to the next synthesis only and resets after use.
	SavePath string
}

// NewSession returns the interactive defaults.
func NewSession() Session {
	return Session{
		Voice:    synthesize.DefaultVoice,
		Language: synthesize.DefaultLanguage,
		Rate:     synthesize.DefaultRate,
	}
}

// ApplyCommand interprets one /-prefixed command against the session,
// returning the updated session, a message to show the user, and whether
// the session should end.
func ApplyCommand(s Session, line string) (Session, string, bool) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch {
	case cmd == "/exit" || cmd == "/quit":
		return s, "", true

	case cmd == "/voice" && arg != "":
		s.Voice = arg
		return s, fmt.Sprintf("Voice set to: %s", arg), false

	case cmd == "/lang" && arg != "":
		s.Language = arg
		return s, fmt.Sprintf("Language set to: %s", arg), false

	case cmd == "/rate" && arg != "":
		rate, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return s, "Error: Rate must be a number", false
		}
		s.Rate = rate
		return s, fmt.Sprintf("Speaking rate set to: %g", rate), false

	case cmd == "/save" && arg != "":
		s.SavePath = arg
		return s, fmt.Sprintf("Next audio will be saved to: %s", arg), false

	case cmd == "/info":
		saveTo := s.SavePath
		if saveTo == "" {
			saveTo = "not saving"
		}
		return s, fmt.Sprintf("Current settings:\n  Voice: %s\n  Language: %s\n  Speaking rate: %g\n  Save to: %s",
			s.Voice, s.Language, s.Rate, saveTo), false

	default:
		return s, fmt.Sprintf("Unknown command: %s", cmd), false
	}
}

// RunInteractive layers a line-oriented command loop over Speak,
// threading the Session value through each iteration.
func RunInteractive(ctx context.Context, serverAddr string, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "=== Interactive Text-to-Speech Mode ===")
	fmt.Fprintln(out, "Type your text and press Enter to hear it spoken.")
	fmt.Fprintln(out, "Use /voice [name] to change voice (e.g., /voice en-US-Neural2-M)")
	fmt.Fprintln(out, "Use /lang [code] to change language (e.g., /lang fr-FR)")
	fmt.Fprintln(out, "Use /rate [number] to change speaking rate (e.g., /rate 0.8)")
	fmt.Fprintln(out, "Use /save [filename] to save the next audio")
	fmt.Fprintln(out, "Type /exit or /quit to end the session")
	fmt.Fprintln(out, "=======================================")

	session := NewSession()
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "\nText to speak (or command): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			next, msg, quit := ApplyCommand(session, line)
			session = next
			if msg != "" {
				fmt.Fprintln(out, msg)
			}
			if quit {
				return nil
			}
			continue
		}

		err := Speak(ctx, SpeakOptions{
			ServerAddr: serverAddr,
			Text:       line,
			Voice:      session.Voice,
			Language:   session.Language,
			Rate:       session.Rate,
			SavePath:   session.SavePath,
		})
		if err != nil {
			var remote *wire.RemoteError
			if errors.As(err, &remote) {
				fmt.Fprintln(out, remote.Message)
			} else {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}

		// One-shot: the save path applies to a single synthesis.
		session.SavePath = ""
	}
}
