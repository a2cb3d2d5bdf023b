package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Riya", "Riya"},
		{"  Dr.   A  ", "Dr. A"},
		{"a\t\nb", "a b"},
		{" multiple   internal\truns ", "multiple internal runs"},
	}
	for _, tc := range cases {
		if got := TrimAndNormalize(tc.in); got != tc.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	if got := NormalizeClock(" 09:00 "); got != "09:00" {
		t.Errorf("expected trimmed clock value, got %q", got)
	}
}
