package paint

import "testing"

func TestParseFrameRate(t *testing.T) {
	cases := map[string]float64{
		"30/1":    30,
		"24000/1001": 23.976023976023978,
		"":        30, // malformed falls back to 30
	}
	for in, want := range cases {
		got := parseFrameRate(in)
		if diff := got - want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("parseFrameRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseSeconds(t *testing.T) {
	got, err := parseSeconds("12.500000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12.5 {
		t.Fatalf("got %v, want 12.5", got)
	}
}
