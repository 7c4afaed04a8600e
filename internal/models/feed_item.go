package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// LocalFileMarker tags sources whose items are files served by the backend itself
const LocalFileMarker = "(local file)"

// FeedItem represents one aggregated entry as returned by the backend's /api/latest
type FeedItem struct {
	Link      string `json:"link" validate:"required"`
	Title     string `json:"title"`
	Published string `json:"published" validate:"required,timestamp"`
	Source    string `json:"source" validate:"required"`
	Summary   string `json:"summary"`
}

// IsLocalFile reports whether the item comes from a backend-hosted file
func (f FeedItem) IsLocalFile() bool {
	return strings.Contains(f.Source, LocalFileMarker)
}

// PublishedAt parses Published, reading zone-less values in loc
func (f FeedItem) PublishedAt(loc *time.Location) (time.Time, error) {
	return ParsePublished(f.Published, loc)
}

// ParsePublished parses the timestamp formats the backend emits
// (python datetime strings, RFC 3339, RFC 1123 and friends).
func ParsePublished(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}
