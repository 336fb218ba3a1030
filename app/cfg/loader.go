package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API key required for rebuild endpoint (optional)"`

	// Cache store configuration
	StoreBackend string `long:"store" env:"STORE_BACKEND" default:"sqlite" choice:"sqlite" choice:"redis" description:"Durable cache store backend"`
	SQLitePath   string `long:"sqlite-path" env:"SQLITE_PATH" default:"./foliocache.db" description:"SQLite database file path"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address (host:port)"`

	// Content source configuration (server-side scheduled rebuilds)
	SourceMode      string `long:"source" env:"SOURCE_MODE" choice:"local" choice:"bucket" choice:"feed" description:"Content source for scheduled rebuilds (unset disables the scheduler)"`
	ContentDir      string `long:"content-dir" env:"CONTENT_DIR" default:"./content" description:"Directory containing markdown content (local source)"`
	ManifestPath    string `long:"manifest" env:"CONTENT_MANIFEST" description:"YAML manifest of content files per type (local source, optional)"`
	BucketURL       string `long:"bucket-url" env:"BUCKET_URL" description:"Object store base URL (bucket source)"`
	FeedURL         string `long:"feed-url" env:"FEED_URL" description:"Upstream feed URL (feed source)"`
	RebuildInterval int    `long:"rebuild-interval" env:"REBUILD_INTERVAL" default:"0" description:"Scheduled rebuild interval in seconds (0 disables)"`

	// Application metadata
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Outbound HTTP timeout in seconds"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"foliocache/1.0" description:"User agent string for HTTP requests"`
	Debug        bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:            raw.Port,
		APIAccessKey:    raw.APIAccessKey,
		StoreBackend:    raw.StoreBackend,
		SQLitePath:      raw.SQLitePath,
		RedisAddr:       raw.RedisAddr,
		SourceMode:      raw.SourceMode,
		ContentDir:      raw.ContentDir,
		ManifestPath:    raw.ManifestPath,
		BucketURL:       raw.BucketURL,
		FeedURL:         raw.FeedURL,
		RebuildInterval: raw.RebuildInterval,
		FetchTimeout:    raw.FetchTimeout,
		UserAgent:       raw.UserAgent,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
