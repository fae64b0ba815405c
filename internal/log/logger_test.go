package log

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for i, tc := range cases {
		if got := ParseLevel(tc.name); got != tc.want {
			t.Fatalf("case %d: ParseLevel(%q) = %v, want %v", i, tc.name, got, tc.want)
		}
	}
}

func TestNewBuildsLogger(t *testing.T) {
	if New(Options{Level: "debug", Format: "json", Component: "test"}) == nil {
		t.Fatalf("expected logger")
	}
	if New(Options{}) == nil {
		t.Fatalf("expected logger with defaults")
	}
}
