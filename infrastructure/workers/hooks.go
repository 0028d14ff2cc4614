package workers

import (
	"context"

	"github.com/jrazmi/taskboard/sdk/logger"
)

// AddPreProcessHooks registers hooks that run after Checkout and before Process.
func (wp *WorkerPool[T]) AddPreProcessHooks(hooks ...PreProcessHook[T]) {
	wp.preProcessHooks = append(wp.preProcessHooks, hooks...)
}

// AddPostProcessHooks registers hooks that run after Process and before
// Complete or Fail.
func (wp *WorkerPool[T]) AddPostProcessHooks(hooks ...PostProcessHook[T]) {
	wp.postProcessHooks = append(wp.postProcessHooks, hooks...)
}

// LogStartHook logs every task as it starts processing.
func LogStartHook[T Task](log *logger.Logger) PreProcessHook[T] {
	return func(ctx context.Context, task T) error {
		log.DebugContext(ctx, "task start", "task_id", task.GetID())
		return nil
	}
}

// LogEndHook logs every task outcome.
func LogEndHook[T Task](log *logger.Logger) PostProcessHook[T] {
	return func(ctx context.Context, task T, err error) error {
		if err != nil {
			log.WarnContext(ctx, "task end", "task_id", task.GetID(), "err", err)
			return nil
		}
		log.DebugContext(ctx, "task end", "task_id", task.GetID())
		return nil
	}
}
