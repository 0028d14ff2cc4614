// Package workers runs tasks from a Processor on a fixed set of goroutines
// with adaptive polling, retries, hooks and metrics.
package workers

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/jrazmi/taskboard/sdk/environment"
	"github.com/jrazmi/taskboard/sdk/logger"
)

var (
	ErrWorkerShutdown  = errors.New("worker should shutdown")
	ErrPoolShutdown    = errors.New("pool should shutdown")
	ErrNoWorkAvailable = errors.New("no work available")
	ErrPoolRunning     = errors.New("pool already running")
)

// Options represents the exportable worker configuration
type Options struct {
	Name         string        `env:"WORKER_NAME" default:"worker"`
	WorkerCount  int           `env:"WORKER_COUNT" default:"4"`
	PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" default:"50ms"`
	IdleInterval time.Duration `env:"WORKER_IDLE_INTERVAL" default:"1s"`
	MaxRetries   int           `env:"WORKER_MAX_RETRIES" default:"1"`
	RetryBackoff time.Duration `env:"WORKER_RETRY_BACKOFF" default:"1s"`
}

// options holds the internal runtime configuration
type options struct {
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	retryBackoff time.Duration
	middlewares  []Middleware
	metrics      WorkerPoolMetrics
	log          *logger.Logger
}

// Option is a function that configures the worker pool options
type Option func(*options)

// WithName sets the worker pool name
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithWorkerCount sets the number of workers
func WithWorkerCount(count int) Option {
	return func(o *options) {
		o.workerCount = count
	}
}

// WithPollInterval sets how often to poll while work is flowing
func WithPollInterval(interval time.Duration) Option {
	return func(o *options) {
		o.pollInterval = interval
	}
}

// WithIdleInterval sets how long to wait when no work is available
func WithIdleInterval(interval time.Duration) Option {
	return func(o *options) {
		o.idleInterval = interval
	}
}

// WithLogger sets a custom logger
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithMaxRetries sets the maximum number of Process attempts. Values below
// one mean a single attempt.
func WithMaxRetries(maxRetries int) Option {
	return func(o *options) {
		o.maxRetries = maxRetries
	}
}

// WithRetryBackoff sets the delay before the second attempt; it doubles for
// every attempt after that.
func WithRetryBackoff(d time.Duration) Option {
	return func(o *options) {
		o.retryBackoff = d
	}
}

// WithMiddleware appends middlewares; the first added is the outermost.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithMetrics sets a custom metrics collector
func WithMetrics(metrics WorkerPoolMetrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WorkerPool runs tasks from a Processor.
type WorkerPool[T Task] struct {
	processor    Processor[T]
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	retryBackoff time.Duration
	log          *logger.Logger

	workFunc         WorkFunc
	middlewares      []Middleware
	preProcessHooks  []PreProcessHook[T]
	postProcessHooks []PostProcessHook[T]
	metrics          WorkerPoolMetrics

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	workers   sync.WaitGroup
	startTime time.Time
	wake      chan struct{}
	errors    chan error
}

// NewFromEnv creates a new worker pool using environment variables
func NewFromEnv[T Task](prefix string, processor Processor[T], opts ...Option) (*WorkerPool[T], error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing worker config: %w", err)
	}
	return New(processor, cfg, opts...), nil
}

// New creates a worker pool from cfg. Functional options override cfg.
func New[T Task](processor Processor[T], cfg Options, opts ...Option) *WorkerPool[T] {
	o := &options{
		name:         cfg.Name,
		workerCount:  cfg.WorkerCount,
		pollInterval: cfg.PollInterval,
		idleInterval: cfg.IdleInterval,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		metrics:      NewNoOpMetrics(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.log == nil {
		o.log = logger.NewDiscard()
	}
	if o.workerCount <= 0 {
		o.workerCount = 1
	}
	if o.pollInterval <= 0 {
		o.pollInterval = 50 * time.Millisecond
	}
	if o.idleInterval <= 0 {
		o.idleInterval = time.Second
	}
	if o.maxRetries <= 0 {
		o.maxRetries = 1
	}

	wp := &WorkerPool[T]{
		processor:    processor,
		name:         o.name,
		workerCount:  o.workerCount,
		pollInterval: o.pollInterval,
		idleInterval: o.idleInterval,
		maxRetries:   o.maxRetries,
		retryBackoff: o.retryBackoff,
		log:          o.log.With("pool", o.name),
		middlewares:  o.middlewares,
		metrics:      o.metrics,
		wake:         make(chan struct{}, o.workerCount),
		errors:       make(chan error, o.workerCount),
	}
	wp.buildMiddlewareChain()
	return wp
}

// Name returns the pool name.
func (wp *WorkerPool[T]) Name() string {
	return wp.name
}

// Start runs the workers and blocks until ctx is cancelled, Stop is called,
// or every worker has exited. It returns the first ErrPoolShutdown a worker
// reported, if any.
func (wp *WorkerPool[T]) Start(ctx context.Context) error {
	wp.mu.Lock()
	if wp.running {
		wp.mu.Unlock()
		return ErrPoolRunning
	}
	ctx, wp.cancel = context.WithCancel(ctx)
	wp.running = true
	wp.startTime = time.Now()
	wp.mu.Unlock()

	wp.log.InfoContext(ctx, "starting worker pool",
		"worker_count", wp.workerCount,
		"poll_interval", wp.pollInterval,
		"idle_interval", wp.idleInterval,
		"max_retries", wp.maxRetries)
	wp.metrics.Start(ctx, wp.name)

	for i := range wp.workerCount {
		workerID := fmt.Sprintf("%s-worker-%d", wp.name, i+1)
		wp.workers.Add(1)
		go wp.worker(ctx, workerID)
	}
	wp.workers.Wait()

	wp.mu.Lock()
	wp.running = false
	wp.cancel()
	wp.mu.Unlock()

	wp.metrics.Stop(context.WithoutCancel(ctx))
	wp.log.InfoContext(context.WithoutCancel(ctx), "worker pool stopped", "total_runtime", time.Since(wp.startTime))

	select {
	case err := <-wp.errors:
		return err
	default:
		return nil
	}
}

// Stop cancels the workers. Start returns once in-flight tasks finish.
func (wp *WorkerPool[T]) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return
	}
	wp.log.Info("stopping worker pool")
	wp.cancel()
}

// Running reports whether Start is in progress.
func (wp *WorkerPool[T]) Running() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.running
}

// Wake nudges one idle worker to poll immediately instead of waiting out
// its interval. It never blocks.
func (wp *WorkerPool[T]) Wake() {
	select {
	case wp.wake <- struct{}{}:
	default:
	}
}

// GetMetrics returns the current metrics snapshot.
func (wp *WorkerPool[T]) GetMetrics() MetricsSnapshot {
	return wp.metrics.GetSnapshot()
}

func (wp *WorkerPool[T]) worker(ctx context.Context, workerID string) {
	defer wp.workers.Done()
	defer wp.metrics.RecordWorkerStopped()

	log := wp.log.With("worker_id", workerID)
	log.DebugContext(ctx, "worker started")
	defer log.Debug("worker stopped")
	wp.metrics.RecordWorkerStarted()

	current := time.Millisecond
	timer := time.NewTimer(current)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-wp.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		err := wp.workWithPanicRecovery(ctx, workerID)

		next := wp.pollInterval
		switch {
		case err == nil:
		case errors.Is(err, ErrWorkerShutdown):
			log.InfoContext(ctx, "worker shutting down as requested")
			return
		case errors.Is(err, ErrPoolShutdown):
			log.ErrorContext(ctx, "worker requesting pool shutdown", "err", err)
			select {
			case wp.errors <- fmt.Errorf("worker %s: %w", workerID, err):
			default:
			}
			wp.Stop()
			return
		case errors.Is(err, ErrNoWorkAvailable):
			next = wp.idleInterval
		default:
			log.ErrorContext(ctx, "task processing error", "err", err)
		}

		if next != current {
			log.DebugContext(ctx, "polling interval changed", "from", current, "to", next)
			current = next
		}
		timer.Reset(current)
	}
}

// workWithPanicRecovery turns a panic anywhere in the middleware chain into
// an error.
func (wp *WorkerPool[T]) workWithPanicRecovery(ctx context.Context, workerID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.ErrorContext(ctx, "panic recovered in worker",
				"worker_id", workerID,
				"panic", r,
				"stack_trace", string(debug.Stack()))
			wp.metrics.RecordWorkerPanic()
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	return wp.workFunc(ctx, workerID)
}

// work runs Checkout -> Process -> Complete/Fail. A panic in Process is
// recovered here so the task is still failed.
func (wp *WorkerPool[T]) work(ctx context.Context, workerID string) error {
	task, err := wp.processor.Checkout(ctx, workerID)
	if err != nil {
		wp.metrics.RecordCheckoutError()
		if errors.Is(err, ErrNoWorkAvailable) {
			return err
		}
		return fmt.Errorf("checkout failed: %w", err)
	}
	wp.metrics.RecordTaskCheckedOut()

	var (
		processErr error
		processed  T
		start      = time.Now()
	)

	defer func() {
		duration := time.Since(start)

		if r := recover(); r != nil {
			wp.log.ErrorContext(ctx, "panic recovered in task",
				"worker_id", workerID,
				"task_id", task.GetID(),
				"panic", r,
				"stack_trace", string(debug.Stack()))
			wp.metrics.RecordWorkerPanic()
			processErr = fmt.Errorf("panic: %v", r)
		}

		hookTask := processed
		if processErr != nil {
			hookTask = task
		}
		for _, hook := range wp.postProcessHooks {
			if err := hook(ctx, hookTask, processErr); err != nil {
				wp.log.ErrorContext(ctx, "post-process hook failed", "task_id", task.GetID(), "err", err)
			}
		}

		if processErr != nil {
			wp.metrics.RecordTaskFailed(duration)
			if err := wp.processor.Fail(ctx, task, processErr); err != nil {
				wp.log.ErrorContext(ctx, "failed to mark task as failed", "task_id", task.GetID(), "err", err)
			}
			return
		}

		wp.metrics.RecordTaskCompleted(duration)
		if err := wp.processor.Complete(ctx, processed, int(duration.Milliseconds())); err != nil {
			wp.log.ErrorContext(ctx, "failed to mark task as complete", "task_id", task.GetID(), "err", err)
		}
	}()

	for _, hook := range wp.preProcessHooks {
		if err := hook(ctx, task); err != nil {
			wp.log.ErrorContext(ctx, "pre-process hook failed", "task_id", task.GetID(), "err", err)
		}
	}

	processed, processErr = wp.processWithRetry(ctx, task)
	if processErr != nil {
		return fmt.Errorf("task %s: %w", task.GetID(), processErr)
	}

	wp.log.DebugContext(ctx, "task completed",
		"worker_id", workerID,
		"task_id", task.GetID(),
		"duration", time.Since(start))
	return nil
}

// processWithRetry calls Process up to maxRetries times with exponential
// backoff between attempts.
func (wp *WorkerPool[T]) processWithRetry(ctx context.Context, task T) (T, error) {
	var (
		lastErr   error
		processed T
	)

	for attempt := 1; attempt <= wp.maxRetries; attempt++ {
		if attempt > 1 {
			wp.metrics.RecordRetryAttempt()
			delay := wp.retryBackoff * time.Duration(1<<(attempt-2))
			wp.log.InfoContext(ctx, "retrying task", "task_id", task.GetID(), "attempt", attempt, "delay", delay)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return processed, ctx.Err()
			case <-timer.C:
			}
		}

		processed, lastErr = wp.processor.Process(ctx, task)
		if lastErr == nil {
			if attempt > 1 {
				wp.metrics.RecordRetrySuccess()
			}
			return processed, nil
		}
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		wp.log.WarnContext(ctx, "task attempt failed", "task_id", task.GetID(), "attempt", attempt, "err", lastErr)
	}

	if wp.maxRetries > 1 {
		wp.metrics.RecordRetryExhausted()
		return processed, fmt.Errorf("failed after %d attempts: %w", wp.maxRetries, lastErr)
	}
	return processed, lastErr
}
