package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foliokit/foliocache/app/pipeline"
	"github.com/foliokit/foliocache/app/store"
)

// RebuildCacheTask runs the full rebuild pipeline and writes the result
// straight to the durable store, bypassing the HTTP rebuild endpoint.
type RebuildCacheTask struct {
	Task
	pipeline   *pipeline.Pipeline
	cacheStore store.Store
}

func NewRebuildCacheTask(p *pipeline.Pipeline, cacheStore store.Store) *RebuildCacheTask {
	return &RebuildCacheTask{
		Task:       NewTask(TaskTypeRebuildCache),
		pipeline:   p,
		cacheStore: cacheStore,
	}
}

func (t *RebuildCacheTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	doc, err := t.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild cache: %w", err)
	}

	if err := t.cacheStore.Put(ctx, doc); err != nil {
		return fmt.Errorf("failed to store cache document: %w", err)
	}

	slog.Info("Task completed",
		"type", "RebuildCache",
		"duration", t.GetDuration(),
		"total", doc.TotalItems())

	return nil
}
