package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner/internal/domain/leitner"
)

// Rebuilder replays one deck's review history. review.Service satisfies it.
type Rebuilder interface {
	Rebuild(ctx context.Context, deck string) (leitner.Progress, error)
}

// RebuildTask rebuilds a single deck.
type RebuildTask struct {
	id        uuid.UUID
	deck      string
	rebuilder Rebuilder

	mu       sync.Mutex
	status   TaskStatus
	progress leitner.Progress
	err      error
}

var _ Task = (*RebuildTask)(nil)

// NewRebuildTask creates a pending task that rebuilds deck.
func NewRebuildTask(deck string, rebuilder Rebuilder) *RebuildTask {
	return &RebuildTask{
		id:        uuid.New(),
		deck:      deck,
		rebuilder: rebuilder,
		status:    TaskStatusPending,
	}
}

func (t *RebuildTask) ID() uuid.UUID { return t.id }

func (t *RebuildTask) Type() string { return TaskTypeDeckRebuild }

// Deck returns the name of the deck the task rebuilds.
func (t *RebuildTask) Deck() string { return t.deck }

func (t *RebuildTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the rebuilt deck's progress and the error, if any.
// Both are zero until the task has finished.
func (t *RebuildTask) Result() (leitner.Progress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress, t.err
}

func (t *RebuildTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)

	progress, err := t.rebuilder.Rebuild(ctx, t.deck)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress, t.err = progress, err
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("rebuild deck %q: %w", t.deck, err)
	}
	t.status = TaskStatusCompleted
	return nil
}

func (t *RebuildTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
}

// RebuildResult is the outcome of rebuilding one deck. Status is
// TaskStatusPending if the batch was canceled before the deck was reached.
type RebuildResult struct {
	Deck     string
	Status   TaskStatus
	Progress leitner.Progress
	Err      error
}

// RebuildDecks rebuilds every deck in decks on a pool of workers and
// returns one result per deck, in the order given. A failing deck does not
// stop the others.
func RebuildDecks(
	ctx context.Context,
	rebuilder Rebuilder,
	decks []string,
	config WorkerPoolConfig,
	logger *slog.Logger,
) ([]RebuildResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	queue := NewTaskQueue(len(decks), logger)
	tasks := make([]*RebuildTask, 0, len(decks))
	for _, deck := range decks {
		t := NewRebuildTask(deck, rebuilder)
		if err := queue.Enqueue(t); err != nil {
			queue.Close()
			return nil, fmt.Errorf("failed to queue rebuild of %q: %w", deck, err)
		}
		tasks = append(tasks, t)
	}
	queue.Close()

	pool := NewWorkerPool(queue, config, logger)
	pool.Start(ctx)
	pool.Wait()

	results := make([]RebuildResult, len(tasks))
	failed := 0
	for i, t := range tasks {
		progress, err := t.Result()
		results[i] = RebuildResult{Deck: t.Deck(), Status: t.Status(), Progress: progress, Err: err}
		if err != nil {
			failed++
		}
	}

	logger.Info("deck rebuild batch finished",
		slog.Int("decks", len(decks)),
		slog.Int("failed", failed))
	return results, ctx.Err()
}
