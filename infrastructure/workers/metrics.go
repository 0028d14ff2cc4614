package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPoolMetrics collects pool orchestration metrics.
type WorkerPoolMetrics interface {
	RecordWorkerStarted()
	RecordWorkerStopped()
	RecordWorkerPanic()

	RecordTaskCheckedOut()
	RecordTaskCompleted(duration time.Duration)
	RecordTaskFailed(duration time.Duration)
	RecordCheckoutError()

	RecordRetryAttempt()
	RecordRetrySuccess()
	RecordRetryExhausted()

	GetSnapshot() MetricsSnapshot

	Start(ctx context.Context, poolName string)
	Stop(ctx context.Context)
}

// MetricsSnapshot represents a point-in-time view of pool metrics
type MetricsSnapshot struct {
	Pool string `json:"pool"`

	WorkersActive int64 `json:"workers_active"`
	WorkerPanics  int64 `json:"worker_panics"`

	TasksCheckedOut int64 `json:"tasks_checked_out"`
	TasksCompleted  int64 `json:"tasks_completed"`
	TasksFailed     int64 `json:"tasks_failed"`
	TasksInProgress int64 `json:"tasks_in_progress"`
	IdlePolls       int64 `json:"idle_polls"`

	RetryAttempts    int64 `json:"retry_attempts"`
	RetrySuccesses   int64 `json:"retry_successes"`
	RetriesExhausted int64 `json:"retries_exhausted"`

	AverageDurationMS int64   `json:"average_duration_ms"`
	MaxDurationMS     int64   `json:"max_duration_ms"`
	ErrorRate         float64 `json:"error_rate"`

	CollectedAt   time.Time `json:"collected_at"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// ================================================================================
// NoOpMetrics
// ================================================================================

type NoOpMetrics struct{}

func NewNoOpMetrics() WorkerPoolMetrics {
	return &NoOpMetrics{}
}

func (n *NoOpMetrics) RecordWorkerStarted()                       {}
func (n *NoOpMetrics) RecordWorkerStopped()                       {}
func (n *NoOpMetrics) RecordWorkerPanic()                         {}
func (n *NoOpMetrics) RecordTaskCheckedOut()                      {}
func (n *NoOpMetrics) RecordTaskCompleted(duration time.Duration) {}
func (n *NoOpMetrics) RecordTaskFailed(duration time.Duration)    {}
func (n *NoOpMetrics) RecordCheckoutError()                       {}
func (n *NoOpMetrics) RecordRetryAttempt()                        {}
func (n *NoOpMetrics) RecordRetrySuccess()                        {}
func (n *NoOpMetrics) RecordRetryExhausted()                      {}
func (n *NoOpMetrics) GetSnapshot() MetricsSnapshot               { return MetricsSnapshot{} }
func (n *NoOpMetrics) Start(ctx context.Context, poolName string) {}
func (n *NoOpMetrics) Stop(ctx context.Context)                   {}

// ================================================================================
// InMemoryMetrics
// ================================================================================

// InMemoryMetrics counts with atomics; the pool name and start time are
// guarded by mu.
type InMemoryMetrics struct {
	mu        sync.RWMutex
	poolName  string
	startTime time.Time
	maxNs     int64

	workersActive atomic.Int64
	workerPanics  atomic.Int64

	checkedOut     atomic.Int64
	completed      atomic.Int64
	failed         atomic.Int64
	checkoutErrors atomic.Int64

	retryAttempts    atomic.Int64
	retrySuccesses   atomic.Int64
	retriesExhausted atomic.Int64

	totalNs atomic.Int64
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{}
}

func (m *InMemoryMetrics) Start(ctx context.Context, poolName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poolName = poolName
	m.startTime = time.Now()
}

func (m *InMemoryMetrics) Stop(ctx context.Context) {}

func (m *InMemoryMetrics) RecordWorkerStarted()  { m.workersActive.Add(1) }
func (m *InMemoryMetrics) RecordWorkerStopped()  { m.workersActive.Add(-1) }
func (m *InMemoryMetrics) RecordWorkerPanic()    { m.workerPanics.Add(1) }
func (m *InMemoryMetrics) RecordTaskCheckedOut() { m.checkedOut.Add(1) }
func (m *InMemoryMetrics) RecordCheckoutError()  { m.checkoutErrors.Add(1) }
func (m *InMemoryMetrics) RecordRetryAttempt()   { m.retryAttempts.Add(1) }
func (m *InMemoryMetrics) RecordRetrySuccess()   { m.retrySuccesses.Add(1) }
func (m *InMemoryMetrics) RecordRetryExhausted() { m.retriesExhausted.Add(1) }

func (m *InMemoryMetrics) RecordTaskCompleted(duration time.Duration) {
	m.completed.Add(1)
	m.observe(duration)
}

func (m *InMemoryMetrics) RecordTaskFailed(duration time.Duration) {
	m.failed.Add(1)
	m.observe(duration)
}

func (m *InMemoryMetrics) observe(d time.Duration) {
	m.totalNs.Add(int64(d))
	m.mu.Lock()
	m.maxNs = max(m.maxNs, int64(d))
	m.mu.Unlock()
}

func (m *InMemoryMetrics) GetSnapshot() MetricsSnapshot {
	now := time.Now()

	m.mu.RLock()
	pool, started, maxNs := m.poolName, m.startTime, m.maxNs
	m.mu.RUnlock()

	completed, failed := m.completed.Load(), m.failed.Load()
	done := completed + failed

	s := MetricsSnapshot{
		Pool:             pool,
		WorkersActive:    m.workersActive.Load(),
		WorkerPanics:     m.workerPanics.Load(),
		TasksCheckedOut:  m.checkedOut.Load(),
		TasksCompleted:   completed,
		TasksFailed:      failed,
		TasksInProgress:  m.checkedOut.Load() - done,
		IdlePolls:        m.checkoutErrors.Load(),
		RetryAttempts:    m.retryAttempts.Load(),
		RetrySuccesses:   m.retrySuccesses.Load(),
		RetriesExhausted: m.retriesExhausted.Load(),
		MaxDurationMS:    time.Duration(maxNs).Milliseconds(),
		CollectedAt:      now,
	}
	if !started.IsZero() {
		s.UptimeSeconds = now.Sub(started).Seconds()
	}
	if done > 0 {
		s.AverageDurationMS = time.Duration(m.totalNs.Load() / done).Milliseconds()
		s.ErrorRate = float64(failed) / float64(done) * 100
	}
	return s
}
