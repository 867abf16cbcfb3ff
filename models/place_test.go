package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFailedPlace(t *testing.T) {
	failure := NewScrapeError(ErrCodeNavigationTimeout, "navigation timed out", nil)
	p := NewFailedPlace("http://b", "Some Cafe", failure)

	if !p.Failed() {
		t.Fatal("expected failed place")
	}
	if p.Get(FieldName) != "Some Cafe" {
		t.Errorf("name = %q, want fallback label", p.Get(FieldName))
	}
	if len(p.Fields) != 1 {
		t.Errorf("failed place should only carry the name, got %v", p.Fields)
	}
	if p.ErrorCode() != ErrCodeNavigationTimeout {
		t.Errorf("ErrorCode() = %q", p.ErrorCode())
	}
}

func TestNewPlace(t *testing.T) {
	p := NewPlace("http://a", nil)
	if p.Failed() || p.ErrorCode() != "" {
		t.Error("new place should be a success")
	}
	if p.Fields == nil {
		t.Error("fields map should be initialised")
	}
}

func TestScrapeError_Classification(t *testing.T) {
	tests := []struct {
		code string
		nav  bool
	}{
		{ErrCodeNavigation, true},
		{ErrCodeNavigationTimeout, true},
		{ErrCodeBrowserCrash, true},
		{ErrCodeInvalidInput, false},
		{ErrCodeFieldExtraction, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := NewScrapeError(tt.code, "x", nil).IsNavigation(); got != tt.nav {
				t.Errorf("IsNavigation() = %v, want %v", got, tt.nav)
			}
		})
	}
}

func TestIsInputError_Wrapped(t *testing.T) {
	base := errors.New("unexpected EOF")
	err := fmt.Errorf("load: %w", NewScrapeError(ErrCodeInvalidInput, "bad json", base))

	if !IsInputError(err) {
		t.Error("wrapped input error not detected")
	}
	if IsConfigError(err) {
		t.Error("input error misdetected as config error")
	}
	if !errors.Is(err, base) {
		t.Error("Unwrap chain should reach the original error")
	}
	if IsInputError(base) {
		t.Error("plain error should not be an input error")
	}
}

func TestFallbackLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.google.com/maps/place/Blue+Bottle+Coffee/@37.7,-122.4,17z/data=x", "Blue Bottle Coffee"},
		{"https://www.google.com/maps/place/Caf%C3%A9+Nord", "Café Nord"},
		{"https://www.google.com/maps/place/A/place/Inner+Name/x", "Inner Name"},
		{"http://a", "http:"},
		{"plain-id", "plain-id"},
		{"https://x/place/100%+Juice/", "100% Juice"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FallbackLabel(tt.in); got != tt.want {
				t.Errorf("FallbackLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
