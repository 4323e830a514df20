package phone

import "testing"

func TestLooksValid(t *testing.T) {
	cases := map[string]bool{
		"5551234567":         true,
		"+1 (555) 123-4567":  true,
		"555.123.4567":       true,
		"+31 6 1234 5678":    true,
		"555-1234":           false,
		"":                   false,
		"+":                  false,
		"555-123-4567 ext 9": false,
		"++15551234567":      false,
	}

	for input, want := range cases {
		if got := LooksValid(input); got != want {
			t.Fatalf("LooksValid(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNormalizeE164TreatsSpellingsAsEqual(t *testing.T) {
	a := NormalizeE164("(415) 555-2671")
	b := NormalizeE164("+1 415.555.2671")
	if a != b {
		t.Fatalf("expected equal normalization, got %q and %q", a, b)
	}
	if a != "+14155552671" {
		t.Fatalf("expected E.164 form, got %q", a)
	}
}

func TestNormalizeE164FallsBackToDigits(t *testing.T) {
	if got := NormalizeE164(" 000-000-0000 "); got != "0000000000" {
		t.Fatalf("expected digit fallback, got %q", got)
	}
	if got := NormalizeE164(""); got != "" {
		t.Fatalf("expected empty input to stay empty, got %q", got)
	}
}
