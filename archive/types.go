package archive

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one archived transcript.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	AudioFile  string    `json:"audioFile"`
	Transcript string    `json:"transcript"`
	Confidence float32   `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Job is one WAV file queued for transcription.
type Job struct {
	FilePath string
	QueuedAt time.Time
}

// FeedMessage wraps an entry for the WebSocket live feed.
type FeedMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Entry     `json:"payload"`
}
