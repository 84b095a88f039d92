package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Format describes raw PCM audio: sample rate in Hz, channel count, and
// bytes per sample. It mirrors the comma-separated header the mic client
// sends ahead of its payload.
type Format struct {
	SampleRate  int
	Channels    int
	SampleWidth int
}

// DefaultFormat is what the mic client captures with: 16 kHz mono 16-bit.
var DefaultFormat = Format{SampleRate: 16000, Channels: 1, SampleWidth: 2}

// String renders the wire form "<rate>,<channels>,<sampleWidthBytes>".
func (f Format) String() string {
	return fmt.Sprintf("%d,%d,%d", f.SampleRate, f.Channels, f.SampleWidth)
}

// ParseFormat parses the wire form. Arity and integer-ness are checked;
// nothing else is validated.
func ParseFormat(s string) (Format, error) {
	var f Format
	n, err := fmt.Sscanf(s, "%d,%d,%d", &f.SampleRate, &f.Channels, &f.SampleWidth)
	if err != nil || n != 3 {
		return Format{}, fmt.Errorf("malformed audio format %q", s)
	}
	return f, nil
}

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// WriteWavHeader writes a canonical 44-byte RIFF header for the given
// format and PCM data size.
func WriteWavHeader(w io.Writer, f Format, dataSize uint32) error {
	bitsPerSample := uint16(f.SampleWidth * 8)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     dataSize + 36,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.SampleRate * f.Channels * f.SampleWidth),
		BlockAlign:    uint16(f.Channels * f.SampleWidth),
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// UpdateWavHeader rewrites the two size fields of an already-written
// header once the final PCM size is known.
func UpdateWavHeader(file *os.File, dataSize uint32) error {
	if _, err := file.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to ChunkSize: %w", err)
	}
	if err := binary.Write(file, binary.LittleEndian, uint32(dataSize+36)); err != nil {
		return fmt.Errorf("failed to write ChunkSize: %w", err)
	}

	if _, err := file.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to Subchunk2Size: %w", err)
	}
	if err := binary.Write(file, binary.LittleEndian, dataSize); err != nil {
		return fmt.Errorf("failed to write Subchunk2Size: %w", err)
	}

	return nil
}

// SaveWav writes header plus PCM data to path in one shot.
func SaveWav(path string, f Format, pcm []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteWavHeader(file, f, uint32(len(pcm))); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := file.Write(pcm); err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	return nil
}
