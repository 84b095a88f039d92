package synthesize

import "context"

// MockSynthesizer returns canned audio, or a fixed error. Used by tests.
type MockSynthesizer struct {
	Audio  []byte
	Voices []Voice
	Err    error

	// LastRequest captures the request of the most recent call.
	LastRequest Request
}

func (m *MockSynthesizer) Synthesize(_ context.Context, req Request) ([]byte, error) {
	m.LastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Audio, nil
}

func (m *MockSynthesizer) ListVoices(context.Context) ([]Voice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Voices, nil
}
