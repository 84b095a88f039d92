// Package synthesize implements the synthesis relay: it parses a text
// request (optionally carrying voice parameters), hands it to a speech
// synthesizer, and streams the resulting audio back with a length header.
package synthesize

import (
	"context"
	"strconv"
	"strings"
)

// Server-side defaults applied to any empty request field.
const (
	DefaultVoice    = "en-US-Neural2-F"
	DefaultLanguage = "en-US"
	DefaultRate     = 1.0
)

// voiceParamsTag marks the extended request encoding
// "VOICE_PARAMS||voice||lang||rate||text".
const (
	voiceParamsTag   = "VOICE_PARAMS"
	voiceParamsDelim = "||"
)

// Request is a fully resolved synthesis request.
type Request struct {
	Text         string
	Voice        string
	Language     string
	SpeakingRate float64
}

// Voice describes one entry of the synthesizer's voice catalog.
type Voice struct {
	Name          string
	LanguageCodes []string
	Gender        string
	SampleRate    int
}

// Synthesizer produces encoded audio for a resolved request.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	ListVoices(ctx context.Context) ([]Voice, error)
}

// ParseRequest decodes the raw request text. A plain string is a request
// with all optional fields defaulted; the extended form overrides
// whichever fields are non-empty. A malformed rate falls back to the
// default, matching the relay's long-standing lenience.
func ParseRequest(raw string) Request {
	req := Request{
		Text:         raw,
		Voice:        DefaultVoice,
		Language:     DefaultLanguage,
		SpeakingRate: DefaultRate,
	}

	if !strings.HasPrefix(raw, voiceParamsTag+voiceParamsDelim) {
		return req
	}

	parts := strings.SplitN(raw, voiceParamsDelim, 5)
	if len(parts) < 4 {
		return req
	}

	if parts[1] != "" {
		req.Voice = parts[1]
	}
	if parts[2] != "" {
		req.Language = parts[2]
	}
	if parts[3] != "" {
		if rate, err := strconv.ParseFloat(parts[3], 64); err == nil {
			req.SpeakingRate = rate
		}
	}
	if len(parts) > 4 {
		req.Text = parts[4]
	} else {
		req.Text = ""
	}
	return req
}

// EncodeRequest builds the wire form for the client side: the plain text
// when no parameter is set, otherwise the extended encoding with empty
// slots for unset fields.
func EncodeRequest(text, voice, language string, rate float64) string {
	if voice == "" && language == "" && rate == 0 {
		return text
	}
	rateField := ""
	if rate != 0 {
		rateField = strconv.FormatFloat(rate, 'g', -1, 64)
	}
	return strings.Join([]string{voiceParamsTag, voice, language, rateField, text}, voiceParamsDelim)
}
