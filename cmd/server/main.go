package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foliokit/foliocache/app/api"
	"github.com/foliokit/foliocache/app/cfg"
	"github.com/foliokit/foliocache/app/pipeline"
	"github.com/foliokit/foliocache/app/source"
	"github.com/foliokit/foliocache/app/store"
	"github.com/foliokit/foliocache/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting foliocache server", "version", appCfg.Version)

	cacheStore, err := newStore(appCfg)
	if err != nil {
		slog.Error("Failed to initialize cache store", "backend", appCfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer cacheStore.Close()
	slog.Info("Cache store ready", "backend", appCfg.StoreBackend)

	var scheduler tasks.TaskSchedulerInterface
	if appCfg.SourceMode != "" && appCfg.RebuildInterval > 0 {
		src, err := newSource(appCfg)
		if err != nil {
			slog.Error("Failed to initialize content source", "source", appCfg.SourceMode, "error", err)
			os.Exit(1)
		}

		scheduler = tasks.NewScheduler(pipeline.New(src), cacheStore,
			time.Duration(appCfg.RebuildInterval)*time.Second)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		slog.Info("Scheduled rebuilds disabled, cache updates arrive via the rebuild endpoint")
	}

	handler := api.NewHandler(cacheStore)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func newStore(appCfg *cfg.Cfg) (store.Store, error) {
	switch appCfg.StoreBackend {
	case "redis":
		return store.NewRedisStore(appCfg.RedisAddr)
	default:
		return store.NewSQLiteStore(appCfg.SQLitePath)
	}
}

func newSource(appCfg *cfg.Cfg) (source.Source, error) {
	timeout := time.Duration(appCfg.FetchTimeout) * time.Second

	switch appCfg.SourceMode {
	case "local":
		manifest := source.Manifest(nil)
		if appCfg.ManifestPath != "" {
			loaded, err := source.LoadManifest(appCfg.ManifestPath)
			if err != nil {
				return nil, err
			}
			manifest = loaded
		}
		return source.NewLocalSource(appCfg.ContentDir, manifest), nil
	case "bucket":
		if appCfg.BucketURL == "" {
			return nil, fmt.Errorf("bucket source requires --bucket-url")
		}
		return source.NewBucketSource(appCfg.BucketURL, timeout, appCfg.UserAgent), nil
	case "feed":
		if appCfg.FeedURL == "" {
			return nil, fmt.Errorf("feed source requires --feed-url")
		}
		return source.NewFeedSource(appCfg.FeedURL, timeout, appCfg.UserAgent), nil
	default:
		return nil, fmt.Errorf("unknown source mode: %s", appCfg.SourceMode)
	}
}
