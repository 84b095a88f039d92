package synthesize

import (
	"context"
	"fmt"
	"log/slog"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

// Encoding selects the audio container the synthesizer returns.
type Encoding string

const (
	// EncodingLinear16 returns a playable WAV file. This is the default
	// so the speaker client can feed replies straight to its playback
	// sink.
	EncodingLinear16 Encoding = "linear16"
	// EncodingMP3 returns MP3, useful when replies are only saved.
	EncodingMP3 Encoding = "mp3"
)

// GoogleSynthesizer calls the Cloud Text-to-Speech API with a forwarded
// API key.
type GoogleSynthesizer struct {
	APIKey   string
	Encoding Encoding
}

func NewGoogleSynthesizer(apiKey string, encoding Encoding) *GoogleSynthesizer {
	if encoding == "" {
		encoding = EncodingLinear16
	}
	return &GoogleSynthesizer{APIKey: apiKey, Encoding: encoding}
}

func (s *GoogleSynthesizer) audioEncoding() texttospeechpb.AudioEncoding {
	if s.Encoding == EncodingMP3 {
		return texttospeechpb.AudioEncoding_MP3
	}
	return texttospeechpb.AudioEncoding_LINEAR16
}

func (s *GoogleSynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	client, err := texttospeech.NewClient(ctx, option.WithAPIKey(s.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	defer client.Close()

	slog.Info("Synthesizing speech",
		"voice", req.Voice,
		"language", req.Language,
		"rate", req.SpeakingRate,
		"textLength", len(req.Text))

	resp, err := client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: req.Language,
			Name:         req.Voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: s.audioEncoding(),
			SpeakingRate:  req.SpeakingRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return resp.AudioContent, nil
}

func (s *GoogleSynthesizer) ListVoices(ctx context.Context) ([]Voice, error) {
	client, err := texttospeech.NewClient(ctx, option.WithAPIKey(s.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}

	voices := make([]Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, Voice{
			Name:          v.Name,
			LanguageCodes: v.LanguageCodes,
			Gender:        v.SsmlGender.String(),
			SampleRate:    int(v.NaturalSampleRateHertz),
		})
	}
	return voices, nil
}
