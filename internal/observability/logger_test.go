package observability

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestEnvLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" trace ", zerolog.TraceLevel},
		{"off", zerolog.Disabled},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tc := range tests {
		t.Setenv(EnvLogLevel, tc.raw)
		if got := envLevel(); got != tc.want {
			t.Fatalf("envLevel(%q): got=%v want=%v", tc.raw, got, tc.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		raw    string
		want   bool
		wantOK bool
	}{
		{"", false, false},
		{"true", true, true},
		{"0", false, true},
		{" 1 ", true, true},
		{"yes", false, false},
	}

	for _, tc := range tests {
		got, ok := parseBool(tc.raw)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("parseBool(%q): got=%v,%v want=%v,%v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}
