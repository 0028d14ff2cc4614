package workers

import (
	"context"
	"sync"
)

// Queue is an in-memory FIFO usable as the Checkout side of a Processor.
type Queue[T Task] struct {
	mu    sync.Mutex
	items []T
}

// NewQueue creates an empty queue.
func NewQueue[T Task]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends task.
func (q *Queue[T]) Push(task T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, task)
}

// Pop removes and returns the oldest task, or ErrNoWorkAvailable.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return zero, ErrNoWorkAvailable
	}
	task := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return task, nil
}

// Len returns the number of queued tasks.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
