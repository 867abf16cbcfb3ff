package models

import (
	"errors"
	"fmt"
)

// Error codes used for failure classification and internal error handling.
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
	ErrCodeNavigation        = "NAVIGATION_FAILED"
	ErrCodeNavigationTimeout = "NAVIGATION_TIMEOUT"
	ErrCodeBrowserCrash      = "BROWSER_CRASH"
	ErrCodeFieldExtraction   = "FIELD_EXTRACTION_FAILED"
	ErrCodeOutput            = "OUTPUT_FAILED"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// IsNavigation reports whether the error downgrades a single target rather
// than the whole run.
func (e *ScrapeError) IsNavigation() bool {
	switch e.Code {
	case ErrCodeNavigation, ErrCodeNavigationTimeout, ErrCodeBrowserCrash:
		return true
	}
	return false
}

// IsInputError reports whether err is (or wraps) an input format failure.
func IsInputError(err error) bool {
	return hasCode(err, ErrCodeInvalidInput)
}

// IsConfigError reports whether err is (or wraps) a configuration failure.
func IsConfigError(err error) bool {
	return hasCode(err, ErrCodeInvalidConfig)
}

func hasCode(err error, code string) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
