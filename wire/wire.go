// Package wire implements the sentinel-delimited framing used on every
// connection between the voicewire clients and relay servers. Payload
// boundaries are marked by literal byte sequences rather than length
// prefixes (the synthesized-audio reply additionally carries a decimal
// length line), so payloads must not contain the sentinel bytes.
package wire

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// Ack is the fixed 3-byte acknowledgment a relay sends after a
	// well-formed header.
	Ack = "ACK"

	// EndAudio terminates the PCM payload on the transcription path.
	EndAudio = "END"

	// EndTranscription terminates the transcript reply.
	EndTranscription = "END_TRANSCRIPTION"

	// EndRequest terminates a text-to-speech request.
	EndRequest = "END_REQUEST"

	// EndSynthesis terminates the synthesized-audio reply.
	EndSynthesis = "END_AUDIO"

	// ErrorPrefix marks a textual failure reply in place of audio.
	ErrorPrefix = "ERROR:"
)

const readBufferSize = 4096

// RemoteError is a failure reported by the peer as an ERROR: text frame.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// SendHeader writes the header bytes and blocks until the peer's 3-byte
// acknowledgment arrives. A mismatched acknowledgment means the exchange
// cannot continue and the caller must abandon the connection. There is no
// deadline here; callers wanting one set it on the connection.
func SendHeader(conn io.ReadWriter, header string) error {
	if _, err := conn.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to send header: %w", err)
	}
	ack := make([]byte, len(Ack))
	if _, err := io.ReadFull(conn, ack); err != nil {
		return fmt.Errorf("failed to read acknowledgment: %w", err)
	}
	if string(ack) != Ack {
		return fmt.Errorf("unexpected acknowledgment %q", ack)
	}
	return nil
}

// ReadHeader reads one header frame from the peer. The header is expected
// to arrive in a single segment ahead of any payload bytes, so a single
// read is used rather than sentinel scanning.
func ReadHeader(conn io.Reader) (string, error) {
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("failed to read header: %w", err)
	}
	return string(buf[:n]), nil
}

// Acknowledge sends the fixed acknowledgment for a received header.
func Acknowledge(conn io.Writer) error {
	if _, err := conn.Write([]byte(Ack)); err != nil {
		return fmt.Errorf("failed to send acknowledgment: %w", err)
	}
	return nil
}

// EndPayload writes the given sentinel, marking the end of a payload.
func EndPayload(conn io.Writer, sentinel string) error {
	if _, err := conn.Write([]byte(sentinel)); err != nil {
		return fmt.Errorf("failed to send end marker: %w", err)
	}
	return nil
}

// ReceiveUntilSentinel reads from the connection until the sentinel byte
// sequence appears or the peer closes, returning the bytes that preceded
// it. The sentinel may arrive split across reads. There is no size bound;
// a peer that never sends the sentinel grows the buffer until EOF.
func ReceiveUntilSentinel(conn io.Reader, sentinel string) ([]byte, error) {
	marker := []byte(sentinel)
	var data []byte
	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			if i := bytes.Index(data, marker); i >= 0 {
				return data[:i], nil
			}
		}
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return data, fmt.Errorf("failed to read payload: %w", err)
		}
	}
}

// ReadSizeLine reads the decimal length line that opens a
// length-prefixed reply. If the line begins with ErrorPrefix the reply
// is a failure frame and a *RemoteError is returned instead. Bytes read
// past the newline already belong to the payload and are returned as
// rest; pass them to ReceiveBody.
func ReadSizeLine(conn io.Reader) (int, []byte, error) {
	var head []byte
	buf := make([]byte, readBufferSize)
	for !bytes.ContainsRune(head, '\n') {
		n, err := conn.Read(buf)
		if n > 0 {
			head = append(head, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, fmt.Errorf("failed to read size header: %w", err)
		}
	}

	line, rest, found := bytes.Cut(head, []byte{'\n'})
	first := strings.TrimSpace(string(line))
	if strings.HasPrefix(first, ErrorPrefix) {
		return 0, nil, &RemoteError{Message: first}
	}
	if !found {
		return 0, nil, fmt.Errorf("connection closed before size header")
	}

	size, err := strconv.Atoi(first)
	if err != nil || size < 0 {
		return 0, nil, fmt.Errorf("malformed size header %q", first)
	}
	return size, rest, nil
}

// ReceiveBody reads the binary payload that follows a size line, seeded
// with the rest bytes ReadSizeLine carried over. The declared size only
// presizes the buffer; the sentinel decides where the payload ends.
func ReceiveBody(conn io.Reader, rest []byte, sentinel string, size int) ([]byte, error) {
	marker := []byte(sentinel)
	data := make([]byte, 0, size)
	data = append(data, rest...)
	buf := make([]byte, readBufferSize)
	for {
		if i := bytes.Index(data, marker); i >= 0 {
			return data[:i], nil
		}
		n, err := conn.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			continue
		}
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return data, fmt.Errorf("failed to read audio payload: %w", err)
		}
	}
}

// ReceiveLengthPrefixed reads a complete length-prefixed reply: the
// decimal size line, then payload until the sentinel. The declared
// length is returned as a sizing hint only.
func ReceiveLengthPrefixed(conn io.Reader, sentinel string) ([]byte, int, error) {
	size, rest, err := ReadSizeLine(conn)
	if err != nil {
		return nil, 0, err
	}
	data, err := ReceiveBody(conn, rest, sentinel, size)
	return data, size, err
}
