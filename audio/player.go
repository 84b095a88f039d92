package audio

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/youpy/go-wav"
)

// PlayWavFile decodes a WAV file and plays it on the default output
// device, blocking until the samples run out.
func PlayWavFile(filename string) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	reader := wav.NewReader(file)

	format, err := reader.Format()
	if err != nil {
		return fmt.Errorf("failed to read WAV format: %w", err)
	}

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	stream, err := portaudio.OpenDefaultStream(
		0,
		int(format.NumChannels),
		float64(format.SampleRate),
		FramesPerChunk,
		func(out []int16) {
			samples, err := reader.ReadSamples(uint32(len(out) / int(format.NumChannels)))
			if err == io.EOF {
				for i := range out {
					out[i] = 0
				}
				finish()
				return
			}
			if err != nil {
				slog.Error("Error reading from WAV file", "error", err)
				finish()
				return
			}

			i := 0
			for _, sample := range samples {
				for ch := 0; ch < int(format.NumChannels) && i < len(out); ch++ {
					out[i] = int16(sample.Values[ch])
					i++
				}
			}
			for ; i < len(out); i++ {
				out[i] = 0
			}
		},
	)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	<-done

	return stream.Stop()
}
