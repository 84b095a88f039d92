package transcribe

import "context"

// MockRecognizer returns canned results, or a fixed error. Used by tests
// and by server dry runs.
type MockRecognizer struct {
	Results []Result
	Err     error

	// LastAudio captures the payload of the most recent call.
	LastAudio      []byte
	LastSampleRate int
}

func (m *MockRecognizer) Recognize(_ context.Context, audio []byte, sampleRate int) ([]Result, error) {
	m.LastAudio = audio
	m.LastSampleRate = sampleRate
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}
