package transcribe

import "testing"

func TestFormatResults(t *testing.T) {
	got := FormatResults([]Result{
		{Transcript: "hello there", Confidence: 0.98},
		{Transcript: "general kenobi", Confidence: 0.9},
	})
	want := "Result 1:\n" +
		"  Transcript: hello there\n" +
		"  Confidence: 0.9800\n" +
		"Result 2:\n" +
		"  Transcript: general kenobi\n" +
		"  Confidence: 0.9000\n"
	if got != want {
		t.Fatalf("unexpected formatting:\n%s", got)
	}
}

func TestFormatResultsEmpty(t *testing.T) {
	if got := FormatResults(nil); got != NoResultsMessage {
		t.Fatalf("expected no-results message, got %q", got)
	}
}
