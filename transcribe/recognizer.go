// Package transcribe implements the transcription relay: it reassembles
// a PCM payload from a mic client, hands it to a speech recognizer, and
// sends the formatted transcript back.
package transcribe

import (
	"context"
	"fmt"
	"strings"
)

// NoResultsMessage is the transcript sent when the recognizer returned
// nothing usable.
const NoResultsMessage = "No transcription results returned. The audio might be silent or unclear."

// Result is one recognized alternative.
type Result struct {
	Transcript string
	Confidence float32
}

// Recognizer turns recorded audio into transcript alternatives. The
// audio is a complete WAV file; sampleRate is taken from the client's
// format header.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, sampleRate int) ([]Result, error)
}

// FormatResults renders results the way clients display them: one
// numbered block per result, or NoResultsMessage when empty.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	var builder strings.Builder
	for i, result := range results {
		fmt.Fprintf(&builder, "Result %d:\n", i+1)
		fmt.Fprintf(&builder, "  Transcript: %s\n", result.Transcript)
		fmt.Fprintf(&builder, "  Confidence: %.4f\n", result.Confidence)
	}
	return builder.String()
}
