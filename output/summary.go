package output

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mr-zlaam/googleMapScraper/engine"
)

// Summary is the end-of-run report. It is logged, never persisted.
type Summary struct {
	// Processed counts unique targets, failures included.
	Processed int `json:"processed"`
	Failed    int `json:"failed"`

	// Received counts every result produced, duplicates included.
	Received int `json:"received"`

	Elapsed time.Duration `json:"-"`

	// ElapsedText is Elapsed rendered as MM:SS.
	ElapsedText string `json:"elapsed"`

	SucceededPath string `json:"succeeded_path,omitempty"`
	FailedPath    string `json:"failed_path,omitempty"`
}

// Summarize builds the summary for outcome.
func Summarize(outcome *engine.Outcome, succeededPath, failedPath string) Summary {
	return Summary{
		Processed:     outcome.Total(),
		Failed:        len(outcome.Failed),
		Received:      outcome.Received,
		Elapsed:       outcome.Elapsed,
		ElapsedText:   FormatElapsed(outcome.Elapsed),
		SucceededPath: succeededPath,
		FailedPath:    failedPath,
	}
}

// FormatElapsed renders d as zero-padded minutes and seconds. Minutes are not
// capped at 59; fractional seconds are dropped.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// LogSummary reports the summary at info level.
func LogSummary(logger *slog.Logger, s Summary) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("run complete",
		"processed", s.Processed,
		"failed", s.Failed,
		"received", s.Received,
		"elapsed", s.ElapsedText,
	)
	logger.Info("output saved", "path", s.SucceededPath)
	logger.Info("failed links saved", "path", s.FailedPath)
}
