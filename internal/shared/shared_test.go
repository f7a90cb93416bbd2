package shared

import (
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected distinct IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID format, got %q", a)
	}
}

func TestNewLogger(t *testing.T) {
	if NewLogger(nil) == nil {
		t.Fatal("expected a logger with a nil writer")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "0s"},
		{"seconds only", 42 * time.Second, "42s"},
		{"minutes and seconds", 14*time.Minute + 2*time.Second, "14m 2s"},
		{"hours", 3*time.Hour + 5*time.Minute, "3h 5m 0s"},
		{"days", 50*time.Hour + 4*time.Minute + 5*time.Second, "2d 2h 4m 5s"},
		{"negative clamps to zero", -time.Minute, "0s"},
		{"sub-second rounds", 1400 * time.Millisecond, "1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
