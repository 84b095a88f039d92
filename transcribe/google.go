package transcribe

import (
	"context"
	"fmt"
	"log/slog"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

// GoogleRecognizer calls the Cloud Speech-to-Text API with a forwarded
// API key. A fresh client is created per request; connections are
// one-shot and the relay holds no long-lived session.
type GoogleRecognizer struct {
	APIKey   string
	Language string
}

func NewGoogleRecognizer(apiKey, language string) *GoogleRecognizer {
	if language == "" {
		language = "en-US"
	}
	return &GoogleRecognizer{APIKey: apiKey, Language: language}
}

func (r *GoogleRecognizer) Recognize(ctx context.Context, audio []byte, sampleRate int) ([]Result, error) {
	client, err := speech.NewClient(ctx, option.WithAPIKey(r.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	slog.Info("Sending audio to Speech-to-Text API", "bytes", len(audio), "sampleRate", sampleRate)

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(sampleRate),
			LanguageCode:               r.Language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to recognize speech: %w", err)
	}

	var results []Result
	for _, result := range resp.Results {
		for _, alternative := range result.Alternatives {
			results = append(results, Result{
				Transcript: alternative.Transcript,
				Confidence: alternative.Confidence,
			})
		}
	}
	return results, nil
}
