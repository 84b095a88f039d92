package synthesize

import "testing"

func TestParseRequestPlainText(t *testing.T) {
	req := ParseRequest("Hello world")
	if req.Text != "Hello world" {
		t.Fatalf("unexpected text %q", req.Text)
	}
	if req.Voice != DefaultVoice || req.Language != DefaultLanguage || req.SpeakingRate != DefaultRate {
		t.Fatalf("expected defaults, got %+v", req)
	}
}

// A plain request and an extended request with every field empty must be
// indistinguishable server-side.
func TestParseRequestEmptyParamsEqualsPlain(t *testing.T) {
	plain := ParseRequest("Hello world")
	extended := ParseRequest("VOICE_PARAMS||||||||Hello world")
	if plain != extended {
		t.Fatalf("plain %+v differs from empty-extended %+v", plain, extended)
	}
}

func TestParseRequestFullParams(t *testing.T) {
	req := ParseRequest("VOICE_PARAMS||en-US-Neural2-M||fr-FR||0.8||Bonjour tout le monde")
	if req.Voice != "en-US-Neural2-M" {
		t.Fatalf("unexpected voice %q", req.Voice)
	}
	if req.Language != "fr-FR" {
		t.Fatalf("unexpected language %q", req.Language)
	}
	if req.SpeakingRate != 0.8 {
		t.Fatalf("unexpected rate %g", req.SpeakingRate)
	}
	if req.Text != "Bonjour tout le monde" {
		t.Fatalf("unexpected text %q", req.Text)
	}
}

func TestParseRequestPartialParams(t *testing.T) {
	req := ParseRequest("VOICE_PARAMS||||de-DE||||Guten Tag")
	if req.Voice != DefaultVoice {
		t.Fatalf("empty voice should default, got %q", req.Voice)
	}
	if req.Language != "de-DE" {
		t.Fatalf("unexpected language %q", req.Language)
	}
	if req.SpeakingRate != DefaultRate {
		t.Fatalf("empty rate should default, got %g", req.SpeakingRate)
	}
}

func TestParseRequestMalformedRate(t *testing.T) {
	req := ParseRequest("VOICE_PARAMS||||||fast||Hello")
	if req.SpeakingRate != DefaultRate {
		t.Fatalf("malformed rate should default, got %g", req.SpeakingRate)
	}
	if req.Text != "Hello" {
		t.Fatalf("unexpected text %q", req.Text)
	}
}

// Text containing the delimiter stays intact: the split is bounded.
func TestParseRequestDelimiterInText(t *testing.T) {
	req := ParseRequest("VOICE_PARAMS||v||l||1.5||one||two||three")
	if req.Text != "one||two||three" {
		t.Fatalf("unexpected text %q", req.Text)
	}
}

func TestEncodeRequestPlain(t *testing.T) {
	if got := EncodeRequest("Hello", "", "", 0); got != "Hello" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestEncodeRequestRoundTrip(t *testing.T) {
	encoded := EncodeRequest("Hello world", "en-US-Neural2-M", "", 0)
	req := ParseRequest(encoded)
	if req.Voice != "en-US-Neural2-M" {
		t.Fatalf("unexpected voice %q", req.Voice)
	}
	if req.Language != DefaultLanguage {
		t.Fatalf("unset language should default, got %q", req.Language)
	}
	if req.SpeakingRate != DefaultRate {
		t.Fatalf("unset rate should default, got %g", req.SpeakingRate)
	}
	if req.Text != "Hello world" {
		t.Fatalf("unexpected text %q", req.Text)
	}
}

func TestEncodeRequestWithRate(t *testing.T) {
	encoded := EncodeRequest("Hi", "v", "en-GB", 0.75)
	req := ParseRequest(encoded)
	if req.Voice != "v" || req.Language != "en-GB" || req.SpeakingRate != 0.75 || req.Text != "Hi" {
		t.Fatalf("round trip mismatch: %+v", req)
	}
}
