package workers

import "context"

// Task is a unit of work. Every task must have an ID.
type Task interface {
	GetID() string
}

// Processor supplies and executes tasks for a WorkerPool.
type Processor[T Task] interface {
	// Checkout returns the next task or ErrNoWorkAvailable. It must be safe
	// for concurrent workers.
	Checkout(ctx context.Context, workerID string) (T, error)

	// Process executes the task.
	Process(ctx context.Context, task T) (T, error)

	// Complete is called after Process succeeds.
	Complete(ctx context.Context, task T, processingTimeMS int) error

	// Fail is called after Process fails or panics.
	Fail(ctx context.Context, task T, err error) error
}

// WorkFunc is one Checkout -> Process -> Complete/Fail cycle.
type WorkFunc func(ctx context.Context, workerID string) error

// Middleware wraps a WorkFunc with additional behavior.
type Middleware func(WorkFunc) WorkFunc

// PreProcessHook runs before Process.
type PreProcessHook[T Task] func(ctx context.Context, task T) error

// PostProcessHook runs after Process with its error, if any.
type PostProcessHook[T Task] func(ctx context.Context, task T, err error) error
