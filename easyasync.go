package easyasync

import (
	"context"
	"time"

	"github.com/Helix128/EasyAsync/core"
)

// SetConfig replaces the process-wide defaults. Call it once at startup,
// before any task is created; see core.SetConfig for the concurrency
// precondition.
func SetConfig(cfg Config) {
	core.SetConfig(cfg)
}

// CurrentConfig returns a copy of the process-wide defaults.
func CurrentConfig() Config {
	return core.CurrentConfig()
}

// Pump drains pending deferred callbacks on the caller's goroutine.
// Hosts using deferred dispatch must call it on a regular cadence from
// one long-lived goroutine; deferred callbacks never run otherwise.
func Pump() {
	core.Pump()
}

// PendingCallbacks reports how many callbacks await the next pump.
func PendingCallbacks() int {
	return core.PendingCallbacks()
}

// RecentTasks returns up to limit recent task outcomes, newest first.
func RecentTasks(limit int) []TaskExecutionRecord {
	return core.SharedHistory().Recent(limit)
}

// Run binds work and callback, merges opts over the process-wide
// defaults and starts the task immediately. The returned task is valid
// even when err is non-nil; its record then carries the failure.
func Run[T any](work WorkFunc[T], callback ResultCallback[T], opts ...TaskOptions) (*Task[T], error) {
	task := Create(work, callback, opts...)
	return task, task.Start()
}

// Create binds work and callback without starting anything. The caller
// starts the task later; options merge against the defaults current at
// that moment.
func Create[T any](work WorkFunc[T], callback ResultCallback[T], opts ...TaskOptions) *Task[T] {
	return core.NewTask(work, callback, firstOpt(opts))
}

// RunVoid starts work that produces no value; the callback, if any, is
// invoked with no arguments.
func RunVoid(work func(ctx context.Context) error, callback func(), opts ...TaskOptions) (*Task[struct{}], error) {
	task := core.NewVoidTask(work, callback, firstOpt(opts))
	return task, task.Start()
}

// RunDetached is fire-and-forget: the work runs on its own context and
// no callback is ever invoked.
func RunDetached(work func(ctx context.Context) error, opts ...TaskOptions) (*Task[struct{}], error) {
	return RunVoid(work, nil, opts...)
}

// RunAfter starts a task whose worker first sleeps for delay and then
// invokes work. The delay happens inside the spawned context, which
// holds its slot and stack for the whole wait; the caller is never
// blocked. Killing the task ends the wait early.
func RunAfter[T any](delay time.Duration, work WorkFunc[T], callback ResultCallback[T], opts ...TaskOptions) (*Task[T], error) {
	if work == nil {
		return Run(work, callback, opts...)
	}
	delayed := func(ctx context.Context) (T, error) {
		if err := sleep(ctx, delay); err != nil {
			var zero T
			return zero, err
		}
		return work(ctx)
	}
	return Run(delayed, callback, opts...)
}

// RunVoidAfter is RunAfter for work that produces no value.
func RunVoidAfter(delay time.Duration, work func(ctx context.Context) error, callback func(), opts ...TaskOptions) (*Task[struct{}], error) {
	if work == nil {
		return RunVoid(work, callback, opts...)
	}
	delayed := func(ctx context.Context) error {
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		return work(ctx)
	}
	return RunVoid(delayed, callback, opts...)
}

// RunOnCore starts the task pinned to the given zero-based core, with
// otherwise-default options.
func RunOnCore[T any](cpu int, work WorkFunc[T], callback ResultCallback[T]) (*Task[T], error) {
	return Run(work, callback, TaskOptions{Affinity: PinTo(cpu)})
}

// RunWithPriority starts the task at the given scheduling priority,
// with otherwise-default options.
func RunWithPriority[T any](priority int, work WorkFunc[T], callback ResultCallback[T]) (*Task[T], error) {
	return Run(work, callback, TaskOptions{Priority: priority})
}

func firstOpt(opts []TaskOptions) TaskOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return TaskOptions{}
}

// sleep waits for d inside the worker, ending early on kill.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
