package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// FramesPerChunk is how many samples the mic client reads per loop
// iteration before forwarding them.
const FramesPerChunk = 1024

// Capture wraps a blocking-read portaudio input stream. Callers must
// Close it when done; closing also terminates portaudio.
type Capture struct {
	stream *portaudio.Stream
	buffer []int16
	format Format
}

// OpenCapture initializes portaudio and opens the default input device at
// the given format, reading FramesPerChunk samples at a time. Only 16-bit
// samples are supported.
func OpenCapture(f Format) (*Capture, error) {
	if f.SampleWidth != 2 {
		return nil, fmt.Errorf("unsupported sample width %d bytes", f.SampleWidth)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	buffer := make([]int16, FramesPerChunk*f.Channels)
	stream, err := portaudio.OpenDefaultStream(f.Channels, 0, float64(f.SampleRate), FramesPerChunk, buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	return &Capture{stream: stream, buffer: buffer, format: f}, nil
}

// ReadChunk blocks for one buffer of samples and returns them as
// little-endian PCM bytes. The returned slice is freshly allocated; the
// caller may retain it.
func (c *Capture) ReadChunk() ([]byte, error) {
	if err := c.stream.Read(); err != nil {
		return nil, fmt.Errorf("failed to read audio chunk: %w", err)
	}

	data := make([]byte, len(c.buffer)*2)
	for i, sample := range c.buffer {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}
	return data, nil
}

// ChunksFor returns how many ReadChunk calls cover the given duration in
// seconds at the capture format.
func (c *Capture) ChunksFor(seconds float64) int {
	return int(float64(c.format.SampleRate) / FramesPerChunk * seconds)
}

func (c *Capture) Close() error {
	err := c.stream.Stop()
	c.stream.Close()
	portaudio.Terminate()
	return err
}

// ListInputDevices returns the audio input devices portaudio can see.
func ListInputDevices() ([]portaudio.DeviceInfo, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	inputDevices := make([]portaudio.DeviceInfo, 0)
	for _, device := range devices {
		if device.MaxInputChannels > 0 {
			inputDevices = append(inputDevices, *device)
		}
	}

	return inputDevices, nil
}
