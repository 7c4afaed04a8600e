// Command web renders the feed page once and writes it as a static file,
// optionally uploading it to R2.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bilgisen/feedview/internal/config"
	"github.com/bilgisen/feedview/internal/feed"
	"github.com/bilgisen/feedview/internal/logger"
	"github.com/bilgisen/feedview/internal/publish"
	"github.com/bilgisen/feedview/internal/render"
	"github.com/jessevdk/go-flags"
)

type options struct {
	Out       string        `short:"o" long:"out" env:"SNAPSHOT_OUT" default:"web/static/index.html" description:"output file, - for stdout"`
	Publish   bool          `long:"publish" env:"SNAPSHOT_PUBLISH" description:"upload the snapshot to the R2 bucket"`
	Key       string        `long:"key" env:"SNAPSHOT_KEY" default:"index.html" description:"object key used with --publish"`
	Timeout   time.Duration `long:"timeout" env:"SNAPSHOT_TIMEOUT" default:"1m" description:"overall timeout"`
	AllowFail bool          `long:"allow-fail" description:"write the page even when the feed could not be loaded"`
	Dbg       bool          `long:"dbg" env:"DEBUG" description:"debug mode"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level := cfg.LogLevel
	if opts.Dbg {
		level = logger.DebugLevel
	}
	if err := logger.Init(logger.Config{Level: level, Output: "stderr", Pretty: true}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(opts, cfg); err != nil {
		logger.Get().Error().Err(err).Msg("Snapshot failed")
		os.Exit(1)
	}
}

func run(opts options, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	render.LogBackend(cfg.Backend)

	// a snapshot always reflects the backend right now
	pageOpts := render.OptionsFromConfig(cfg)
	pageOpts.Policy = feed.NoStore()

	renderer, err := render.New(pageOpts, feed.NewFetcher(cfg.HTTPTimeout, nil))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	outcome, err := renderer.Render(ctx, &buf)
	if err != nil {
		return err
	}
	if outcome != render.OutcomeSuccess && !opts.AllowFail {
		return fmt.Errorf("page rendered as %s, refusing to write snapshot", outcome)
	}

	if err := write(opts.Out, buf.Bytes()); err != nil {
		return err
	}
	logger.Get().Info().Str("out", opts.Out).Str("outcome", outcome.String()).Int("bytes", buf.Len()).Msg("Snapshot written")

	if !opts.Publish {
		return nil
	}
	if outcome != render.OutcomeSuccess {
		return fmt.Errorf("not publishing a %s page", outcome)
	}

	publisher, err := publish.NewR2Publisher(ctx, cfg)
	if err != nil {
		return err
	}
	if err := publisher.Publish(ctx, opts.Key, buf.Bytes()); err != nil {
		return err
	}
	logger.Get().Info().Str("bucket", cfg.R2Bucket).Str("key", opts.Key).Msg("Snapshot published")
	return nil
}

func write(out string, page []byte) error {
	if out == "-" {
		_, err := os.Stdout.Write(page)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, page, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
