package models

import (
	"net/url"
	"strings"
)

// Field names a single extracted attribute of a place. The set is closed.
type Field string

const (
	FieldName             Field = "name"
	FieldAddress          Field = "address"
	FieldPhone            Field = "phone"
	FieldWebsite          Field = "website"
	FieldRating           Field = "rating"
	FieldCategory         Field = "category"
	FieldOpeningHours     Field = "opening_hours"
	FieldShortDescription Field = "short_description"
)

// ColumnURL is the output column holding the originating target identifier.
const ColumnURL = "url"

// DefaultCategory is recorded when no category element can be found.
const DefaultCategory = "All"

// Fields lists the full vocabulary in extraction order.
var Fields = []Field{
	FieldName,
	FieldAddress,
	FieldPhone,
	FieldWebsite,
	FieldRating,
	FieldCategory,
	FieldOpeningHours,
	FieldShortDescription,
}

// Place is the per-target extraction result. It is either a success
// (Failure == nil, Fields best-effort populated) or a failure (Failure set,
// Fields holds only the fallback name label).
type Place struct {
	// URL is the originating target identifier.
	URL string

	// Fields holds the observed fields; a missing key means "not observed".
	Fields map[Field]string

	// Failure classifies a target-level failure. Nil on success.
	Failure *ScrapeError
}

// NewPlace builds a successful result.
func NewPlace(url string, fields map[Field]string) *Place {
	if fields == nil {
		fields = make(map[Field]string)
	}
	return &Place{URL: url, Fields: fields}
}

// NewFailedPlace builds a failed result carrying a fallback name label.
func NewFailedPlace(url, label string, failure *ScrapeError) *Place {
	return &Place{
		URL:     url,
		Fields:  map[Field]string{FieldName: label},
		Failure: failure,
	}
}

// Failed reports whether the result belongs to the failure set.
func (p *Place) Failed() bool {
	return p.Failure != nil
}

// Get returns the value of a field, or "" when it was not observed.
func (p *Place) Get(f Field) string {
	return p.Fields[f]
}

// ErrorCode returns the failure classification, or "" on success.
func (p *Place) ErrorCode() string {
	if p.Failure == nil {
		return ""
	}
	return p.Failure.Code
}

// FallbackLabel derives a readable name from a target identifier for
// results that never reached a loaded page: the path segment following the
// last "/place/", with "+" placeholders turned into spaces.
func FallbackLabel(target string) string {
	label := target
	if i := strings.LastIndex(label, "/place/"); i >= 0 {
		label = label[i+len("/place/"):]
	}
	if i := strings.IndexByte(label, '/'); i >= 0 {
		label = label[:i]
	}
	label = strings.ReplaceAll(label, "+", " ")
	if unescaped, err := url.PathUnescape(label); err == nil {
		label = unescaped
	}
	return label
}
