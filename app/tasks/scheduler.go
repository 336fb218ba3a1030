package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foliokit/foliocache/app/pipeline"
	"github.com/foliokit/foliocache/app/store"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler triggers periodic cache rebuilds. A single worker drains the
// queue, so two rebuilds never run concurrently.
type Scheduler struct {
	pipeline   *pipeline.Pipeline
	cacheStore store.Store
	interval   time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	taskQueue  chan TaskInterface
}

func NewScheduler(p *pipeline.Pipeline, cacheStore store.Store, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		pipeline:   p,
		cacheStore: cacheStore,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
		taskQueue:  make(chan TaskInterface, 10),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// Rebuild once on startup so a fresh server is populated.
		s.enqueueRebuild()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueRebuild()
			}
		}
	}()

	slog.Info("Rebuild scheduler started", "interval", s.interval)
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueRebuild() {
	task := NewRebuildCacheTask(s.pipeline, s.cacheStore)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue RebuildCacheTask", "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}

			task.Start()
			slog.Debug("Task started", "type", task.GetType(), "id", task.GetID())

			if err := task.Execute(s.ctx); err != nil {
				slog.Error("Task failed",
					"type", task.GetType(),
					"id", task.GetID(),
					"duration", task.GetDuration(),
					"error", err)
			}
		}
	}
}
