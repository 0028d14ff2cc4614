package tasksrepo

import (
	"math/rand/v2"
	"slices"
	"time"
)

// Operation names a repository call for policies and logs.
type Operation string

const (
	OpListTasks        Operation = "listTasks"
	OpUpdateTaskStatus Operation = "updateTaskStatus"
	OpCreateTask       Operation = "createTask"
)

// DefaultFailureRate is the simulated failure probability of every call.
const DefaultFailureRate = 0.125

// DelayPolicy returns the artificial latency for a call.
type DelayPolicy func(op Operation) time.Duration

// FailurePolicy reports whether a call should fail.
type FailurePolicy func(op Operation) bool

// SimulatedDelay draws latency uniformly from 800 to 1200ms for listTasks and
// 600 to 900ms for everything else.
func SimulatedDelay() DelayPolicy {
	return func(op Operation) time.Duration {
		lo, hi := 600*time.Millisecond, 900*time.Millisecond
		if op == OpListTasks {
			lo, hi = 800*time.Millisecond, 1200*time.Millisecond
		}
		return lo + rand.N(hi-lo)
	}
}

// FixedDelay always waits d.
func FixedDelay(d time.Duration) DelayPolicy {
	return func(Operation) time.Duration {
		return d
	}
}

// NoDelay never waits.
func NoDelay(Operation) time.Duration {
	return 0
}

// SimulatedFailure fails each call independently with probability rate.
func SimulatedFailure(rate float64) FailurePolicy {
	return func(Operation) bool {
		return rand.Float64() < rate
	}
}

// NeverFail never fails.
func NeverFail(Operation) bool {
	return false
}

// FailOn fails every call to one of ops.
func FailOn(ops ...Operation) FailurePolicy {
	return func(op Operation) bool {
		return slices.Contains(ops, op)
	}
}
