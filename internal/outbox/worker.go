package outbox

import (
	"context"
	"log"
	"time"

	"aireadiness/internal/model"
	"aireadiness/internal/repository"
)

// Runner executes the work behind one outbox task
type Runner interface {
	RunCompletionPipeline(ctx context.Context, attemptID string) error
}

// Worker drains the durable outbox. Each task is claimed atomically and
// run once; a failed task stays failed until a caller explicitly
// re-enqueues it, so side effects never retry unbounded.
type Worker struct {
	repo        repository.OutboxRepo
	runner      Runner
	pollEvery   time.Duration
	taskTimeout time.Duration
}

// NewWorker creates a new outbox worker
func NewWorker(repo repository.OutboxRepo, runner Runner) *Worker {
	return &Worker{
		repo:        repo,
		runner:      runner,
		pollEvery:   2 * time.Second,
		taskTimeout: 2 * time.Minute,
	}
}

// Start runs the polling loop until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Worker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain claims and runs pending tasks until the queue is empty
func (w *Worker) drain(ctx context.Context) {
	for {
		task, err := w.repo.ClaimNext(ctx)
		if err != nil {
			log.Printf("outbox claim failed: %v", err)
			return
		}
		if task == nil {
			return
		}
		w.process(ctx, task)
	}
}

func (w *Worker) process(ctx context.Context, task *model.OutboxTask) {
	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic in outbox task %s: %v", task.ID, r)
			if err := w.repo.MarkFailed(ctx, task.ID, nil); err != nil {
				log.Printf("failed to mark task %s failed: %v", task.ID, err)
			}
		}
	}()

	var err error
	switch task.Type {
	case model.TaskCompletionPipeline:
		err = w.runner.RunCompletionPipeline(taskCtx, task.AttemptID)
	default:
		log.Printf("unknown outbox task type %q, dropping", task.Type)
	}

	if err != nil {
		log.Printf("outbox task %s (%s) failed: %v", task.ID, task.Type, err)
		if markErr := w.repo.MarkFailed(ctx, task.ID, err); markErr != nil {
			log.Printf("failed to mark task %s failed: %v", task.ID, markErr)
		}
		return
	}

	if err := w.repo.MarkDone(ctx, task.ID); err != nil {
		log.Printf("failed to mark task %s done: %v", task.ID, err)
	}
}
