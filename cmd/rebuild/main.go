package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/foliokit/foliocache/app/pipeline"
	"github.com/foliokit/foliocache/app/publisher"
	"github.com/foliokit/foliocache/app/source"
)

// opts covers every rebuild variant in one parameterized command: pick a
// content source, pick a publish target, run once.
type opts struct {
	Source       string `long:"source" env:"SOURCE_MODE" default:"local" choice:"local" choice:"bucket" choice:"feed" description:"Content source to read from"`
	ContentDir   string `long:"content-dir" env:"CONTENT_DIR" default:"./content" description:"Directory containing markdown content (local source)"`
	ManifestPath string `long:"manifest" env:"CONTENT_MANIFEST" description:"YAML manifest of content files per type (local source, optional)"`
	BucketURL    string `long:"bucket-url" env:"BUCKET_URL" description:"Object store base URL (bucket source)"`
	FeedURL      string `long:"feed-url" env:"FEED_URL" description:"Upstream feed URL (feed source)"`

	Endpoint string `long:"endpoint" env:"REBUILD_ENDPOINT" description:"Rebuild endpoint to publish to (omit for a dry run)"`
	APIKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"API key for the rebuild endpoint (optional)"`

	Timeout   int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"Outbound HTTP timeout in seconds"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"foliocache/1.0" description:"User agent string for HTTP requests"`
	Automated bool   `long:"automated" env:"AUTOMATED_BUILD" description:"Automated build mode: publish failures are warnings, not fatal"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func main() {
	var o opts

	parser := flags.NewParser(&o, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if o.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	os.Exit(run(&o))
}

func run(o *opts) int {
	ctx := context.Background()
	timeout := time.Duration(o.Timeout) * time.Second

	src, err := newSource(o, timeout)
	if err != nil {
		slog.Error("Invalid source configuration", "error", err)
		return 1
	}

	slog.Info("Rebuilding content cache", "source", src.Name())

	doc, err := pipeline.New(src).Run(ctx)
	if err != nil {
		slog.Error("Rebuild failed", "error", err)
		return 1
	}

	if o.Endpoint == "" {
		slog.Info("No endpoint configured, skipping publish", "total", doc.TotalItems())
		return 0
	}

	pub := publisher.NewPublisher(o.Endpoint, o.APIKey, timeout)
	result, err := pub.Run(ctx, doc)
	if err != nil {
		// Automated site builds proceed on a stale cache; a manual rebuild
		// surfaces the failure through the exit code.
		if o.Automated {
			slog.Warn("Publish failed, continuing with stale cache", "error", err)
			return 0
		}
		slog.Error("Publish failed", "error", err)
		return 1
	}

	slog.Info("Rebuild complete", "total", result.TotalItems)
	return 0
}

func newSource(o *opts, timeout time.Duration) (source.Source, error) {
	switch o.Source {
	case "local":
		manifest := source.Manifest(nil)
		if o.ManifestPath != "" {
			loaded, err := source.LoadManifest(o.ManifestPath)
			if err != nil {
				return nil, err
			}
			manifest = loaded
		}
		return source.NewLocalSource(o.ContentDir, manifest), nil
	case "bucket":
		if o.BucketURL == "" {
			return nil, fmt.Errorf("bucket source requires --bucket-url")
		}
		return source.NewBucketSource(o.BucketURL, timeout, o.UserAgent), nil
	case "feed":
		if o.FeedURL == "" {
			return nil, fmt.Errorf("feed source requires --feed-url")
		}
		return source.NewFeedSource(o.FeedURL, timeout, o.UserAgent), nil
	default:
		return nil, fmt.Errorf("unknown source mode: %s", o.Source)
	}
}
