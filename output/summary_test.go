package output

import (
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{59*time.Second + 900*time.Millisecond, "00:59"},
		{75 * time.Second, "01:15"},
		{61*time.Minute + 5*time.Second, "61:05"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.in); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleOutcome(), "out.csv", "failed.csv")

	if s.Processed != 3 || s.Failed != 1 || s.Received != 3 {
		t.Errorf("summary = %+v", s)
	}
	if s.ElapsedText != "01:15" {
		t.Errorf("ElapsedText = %q", s.ElapsedText)
	}
}
