package taskstore

import (
	"context"
	"errors"

	"github.com/jrazmi/taskboard/infrastructure/workers"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Resolver queues begun status updates and resolves them on a worker pool.
// It implements workers.Processor[Pending].
type Resolver struct {
	log   *logger.Logger
	store *Store
	queue *workers.Queue[Pending]
	wake  func()
}

// NewResolver creates a Resolver for store.
func NewResolver(log *logger.Logger, store *Store) *Resolver {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Resolver{
		log:   log,
		store: store,
		queue: workers.NewQueue[Pending](),
		wake:  func() {},
	}
}

// OnEnqueue registers fn to be called after every Enqueue, typically the
// pool's Wake.
func (r *Resolver) OnEnqueue(fn func()) {
	r.wake = fn
}

// Enqueue schedules p for resolution.
func (r *Resolver) Enqueue(p Pending) {
	r.queue.Push(p)
	r.wake()
}

// Pending returns the number of queued resolutions.
func (r *Resolver) Pending() int {
	return r.queue.Len()
}

func (r *Resolver) Checkout(ctx context.Context, workerID string) (Pending, error) {
	return r.queue.Pop(ctx)
}

// Process runs the repository call. The store records a failure in its error
// slot before it is returned here.
func (r *Resolver) Process(ctx context.Context, p Pending) (Pending, error) {
	return p, r.store.ResolveStatusUpdate(ctx, p)
}

func (r *Resolver) Complete(ctx context.Context, p Pending, processingTimeMS int) error {
	r.log.DebugContext(ctx, "status update resolved", "task_id", p.ID, "seq", p.Seq, "ms", processingTimeMS)
	return nil
}

func (r *Resolver) Fail(ctx context.Context, p Pending, err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if errors.Is(err, ErrAlreadyResolved) {
		r.log.DebugContext(ctx, "status update already resolved", "task_id", p.ID, "seq", p.Seq)
		return nil
	}
	r.log.WarnContext(ctx, "status update failed", "task_id", p.ID, "seq", p.Seq, "err", err)
	return nil
}
