package task

import (
	"context"
	"log/slog"
	"sync"
)

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue until the queue is closed and drained.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines
	wg sync.WaitGroup

	logger *slog.Logger

	// errorHandler is called when a task execution fails
	// If nil, errors are only logged
	errorHandler func(task Task, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", config.WorkerCount),
			slog.Int("default_count", 1))
	}

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		logger:      logger.With(slog.String("component", "worker_pool")),
	}
}

// SetErrorHandler sets a handler for task execution failures.
// It must be called before Start.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// Start launches the workers. They stop when the queue channel is closed
// and empty, or when ctx is canceled.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Wait blocks until every worker has stopped.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", slog.Int("worker_id", id))
	tasks := p.taskQueue.GetChannel()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case task, ok := <-tasks:
			if !ok {
				p.logger.Debug("task channel closed, stopping worker", slog.Int("worker_id", id))
				return
			}
			p.processTask(ctx, task, id)
		}
	}
}

func (p *WorkerPool) processTask(ctx context.Context, task Task, workerID int) {
	log := p.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("worker_id", workerID),
	)

	log.Debug("processing task")
	if err := task.Execute(ctx); err != nil {
		log.Error("task execution failed", slog.String("error", err.Error()))
		if p.errorHandler != nil {
			p.errorHandler(task, err)
		}
		return
	}
	log.Debug("task completed successfully")
}
