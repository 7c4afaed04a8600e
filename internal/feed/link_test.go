package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLink(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		source  string
		baseURL string
		want    string
	}{
		{
			name:    "books go to the reader",
			link:    "https://example.com/book",
			source:  "Books(local file)",
			baseURL: "http://host",
			want:    DefaultReaderURL,
		},
		{
			name:    "books reader wins over local file rewrite",
			link:    "/api/files/x",
			source:  "Books(local file)",
			baseURL: "http://host",
			want:    DefaultReaderURL,
		},
		{
			name:    "local file rewritten to backend",
			link:    "/api/files/a.pdf",
			source:  "PDF(local file)",
			baseURL: "http://host",
			want:    "http://host/api/files/a.pdf",
		},
		{
			name:    "local file outside files prefix untouched",
			link:    "https://mirror.example.com/a.pdf",
			source:  "Research Papers(local file)",
			baseURL: "http://host",
			want:    "https://mirror.example.com/a.pdf",
		},
		{
			name:    "files prefix without local marker untouched",
			link:    "/api/files/a.pdf",
			source:  "RSS",
			baseURL: "http://host",
			want:    "/api/files/a.pdf",
		},
		{
			name:    "remote article untouched",
			link:    "https://example.com/x",
			source:  "RSS",
			baseURL: "http://host",
			want:    "https://example.com/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLink(tt.link, tt.source, tt.baseURL))
		})
	}
}

func TestFormatLinkBooksIgnoresInputs(t *testing.T) {
	for _, link := range []string{"", "/api/files/1", "https://a.b/c", "relative"} {
		for _, base := range []string{"", "http://host", "https://feeds.example.com"} {
			assert.Equal(t, DefaultReaderURL, FormatLink(link, BooksSource, base))
		}
	}
}

func TestLinkFormatterCustomReader(t *testing.T) {
	f := NewLinkFormatter("https://reader.example.com/")

	assert.Equal(t, "https://reader.example.com/", f.Format("/api/files/b", BooksSource, "http://host"))
	assert.Equal(t, "books-reader", f.Rule("/api/files/b", BooksSource, "http://host"))
	assert.Equal(t, "local-file", f.Rule("/api/files/b", "AI papers(local file)", "http://host"))
	assert.Equal(t, "passthrough", f.Rule("https://x.y", "lesswrong", "http://host"))
}

func TestNewLinkFormatterDefaultsReader(t *testing.T) {
	assert.Equal(t, DefaultReaderURL, NewLinkFormatter("").Format("x", BooksSource, ""))
}
