package feed

import (
	"strings"

	"github.com/bilgisen/feedview/internal/models"
)

const (
	// BooksSource is the source whose items open in the companion reader app
	BooksSource = "Books" + models.LocalFileMarker
	// FilesPrefix is the backend path serving local files
	FilesPrefix = "/api/files/"
	// DefaultReaderURL is where BooksSource items point to
	DefaultReaderURL = "http://localhost:3001"
)

type linkInput struct {
	link    string
	source  string
	baseURL string
}

// linkRule is a guard returning a definitive display link when it matches
type linkRule struct {
	name  string
	match func(in linkInput) bool
	apply func(in linkInput) string
}

// LinkFormatter decides the user-facing link of a feed item. Rules are tried
// top to bottom and the first match wins.
type LinkFormatter struct {
	rules []linkRule
}

// NewLinkFormatter builds a formatter redirecting books to readerURL
func NewLinkFormatter(readerURL string) *LinkFormatter {
	if readerURL == "" {
		readerURL = DefaultReaderURL
	}
	return &LinkFormatter{rules: []linkRule{
		{
			name:  "books-reader",
			match: func(in linkInput) bool { return in.source == BooksSource },
			apply: func(linkInput) string { return readerURL },
		},
		{
			name: "local-file",
			match: func(in linkInput) bool {
				return strings.Contains(in.source, models.LocalFileMarker) && strings.HasPrefix(in.link, FilesPrefix)
			},
			apply: func(in linkInput) string { return in.baseURL + in.link },
		},
		{
			name:  "passthrough",
			match: func(linkInput) bool { return true },
			apply: func(in linkInput) string { return in.link },
		},
	}}
}

// Format returns the display link for an item with the given link and source
func (f *LinkFormatter) Format(link, source, baseURL string) string {
	_, out := f.resolve(linkInput{link: link, source: source, baseURL: baseURL})
	return out
}

// Rule names the rule that decides the link, for logging
func (f *LinkFormatter) Rule(link, source, baseURL string) string {
	name, _ := f.resolve(linkInput{link: link, source: source, baseURL: baseURL})
	return name
}

func (f *LinkFormatter) resolve(in linkInput) (string, string) {
	for _, r := range f.rules {
		if r.match(in) {
			return r.name, r.apply(in)
		}
	}
	return "", in.link
}

var defaultFormatter = NewLinkFormatter(DefaultReaderURL)

// FormatLink formats with DefaultReaderURL
func FormatLink(link, source, baseURL string) string {
	return defaultFormatter.Format(link, source, baseURL)
}
