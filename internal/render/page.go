// Package render turns the backend's latest items into the feed page.
package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/bilgisen/feedview/internal/config"
	"github.com/bilgisen/feedview/internal/feed"
	"github.com/bilgisen/feedview/internal/logger"
	"github.com/bilgisen/feedview/internal/models"
	"github.com/samber/lo"
)

//go:embed templates/*.tmpl
var templates embed.FS

// DisplayLayout is how item timestamps are shown
const DisplayLayout = "1/2/2006, 3:04:05 PM"

// Outcome is the terminal state of one render
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeConfigMissing
	OutcomeFetchFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfigMissing:
		return "config-missing"
	case OutcomeFetchFailed:
		return "fetch-failed"
	default:
		return "success"
	}
}

// ItemFetcher loads the latest items from the backend
type ItemFetcher interface {
	Fetch(ctx context.Context, baseURL string, policy feed.CachePolicy) ([]models.FeedItem, error)
}

// Options is the page configuration, built once at startup
type Options struct {
	Title     string
	Backend   config.Backend
	Policy    feed.CachePolicy
	Debug     bool // show the endpoint line, never in production
	Location  *time.Location
	ReaderURL string
}

// OptionsFromConfig derives page options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Title:     cfg.PageTitle,
		Backend:   cfg.Backend,
		Policy:    feed.RevalidateEvery(cfg.CacheRevalidate),
		Debug:     !cfg.IsProduction(),
		Location:  cfg.DisplayLocation,
		ReaderURL: cfg.BooksReaderURL,
	}
}

type Renderer struct {
	opts    Options
	fetcher ItemFetcher
	links   *feed.LinkFormatter
	tmpl    *template.Template
}

func New(opts Options, fetcher ItemFetcher) (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Renderer{
		opts:    opts,
		fetcher: fetcher,
		links:   feed.NewLinkFormatter(opts.ReaderURL),
		tmpl:    tmpl,
	}, nil
}

type entry struct {
	Href      string
	Title     string
	Published string
	Datetime  string
	Source    string
	Summary   string
	Local     bool
}

type pageView struct {
	Title           string
	Debug           bool
	Endpoint        string
	State           string
	ConfigKey       string
	PublicConfigKey string
	ExampleURL      string
	Items           []entry
}

// Render writes the page for the current backend state to w. The outcome is
// returned even when writing fails.
func (r *Renderer) Render(ctx context.Context, w io.Writer) (Outcome, error) {
	view := pageView{
		Title:           r.opts.Title,
		Debug:           r.opts.Debug,
		ConfigKey:       config.KeyBackendURL,
		PublicConfigKey: config.KeyPublicBackendURL,
		ExampleURL:      config.DefaultBackendURL,
	}
	outcome := r.load(ctx, &view)
	view.State = outcome.String()

	// render into a buffer so a template error never leaves half a page behind
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return outcome, fmt.Errorf("failed to render page: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return outcome, fmt.Errorf("failed to write page: %w", err)
	}
	return outcome, nil
}

func (r *Renderer) load(ctx context.Context, view *pageView) Outcome {
	log := logger.Component("render")
	backend := r.opts.Backend

	if !backend.Configured() {
		log.Warn().Err(backend.Err).Msg("Backend URL not configured, skipping fetch")
		return OutcomeConfigMissing
	}

	view.Endpoint = feed.Endpoint(backend.URL)
	log.Info().
		Str("endpoint", view.Endpoint).
		Str("cache", r.opts.Policy.String()).
		Msg("Fetching feed")

	items, err := r.fetcher.Fetch(ctx, backend.URL, r.opts.Policy)
	if err != nil {
		event := log.Error().Err(err).Str("endpoint", view.Endpoint)
		var fe *feed.FetchError
		if errors.As(err, &fe) {
			event = event.Str("kind", string(fe.Kind)).Int("status", fe.Status)
		}
		event.Msg("Failed to fetch feed")
		return OutcomeFetchFailed
	}

	if dups := lo.FindDuplicatesBy(items, func(it models.FeedItem) string { return it.Link }); len(dups) > 0 {
		log.Warn().
			Strs("links", lo.Map(dups, func(it models.FeedItem, _ int) string { return it.Link })).
			Msg("Backend returned duplicate links")
	}

	view.Items = lo.Map(items, func(it models.FeedItem, _ int) entry {
		return r.entry(it, backend.URL)
	})
	return OutcomeSuccess
}

func (r *Renderer) entry(it models.FeedItem, baseURL string) entry {
	e := entry{
		Href:      r.links.Format(it.Link, it.Source, baseURL),
		Title:     lo.Ternary(it.Title != "", it.Title, it.Link),
		Published: it.Published,
		Source:    it.Source,
		Summary:   it.Summary,
		Local:     it.IsLocalFile(),
	}
	if t, err := it.PublishedAt(r.opts.Location); err == nil {
		t = t.In(r.opts.Location)
		e.Published = t.Format(DisplayLayout)
		e.Datetime = t.Format(time.RFC3339)
	}
	return e
}

// LogBackend reports which backend URL the page will use
func LogBackend(b config.Backend) {
	log := logger.Component("config")
	switch {
	case !b.Configured():
		log.Warn().Err(b.Err).Msg("Backend URL missing, the page will show setup instructions")
	case b.Fallback:
		log.Info().Str("url", b.URL).Msg("Backend URL not set, using development default")
	default:
		log.Info().Str("url", b.URL).Str("key", b.Key).Msg("Resolved backend URL")
	}
}
