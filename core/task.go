package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// WorkFunc produces the task's result inside the worker context. The
// context is cancelled when the task is killed; cooperative work
// functions should observe it, non-cooperative ones run to completion
// on an abandoned goroutine.
type WorkFunc[T any] func(ctx context.Context) (T, error)

// ResultCallback receives the produced value after the work function
// returns normally. It never runs for failed or cancelled tasks.
type ResultCallback[T any] func(value T)

// taskCounter feeds generated display names for tasks started without one.
var taskCounter atomic.Uint64

// Task binds a work function, a result callback and per-task options to
// one schedulable context. Construction performs no scheduling; Start
// merges the options over the process-wide defaults and spawns the
// context. A Task is single-use.
//
// Use a Task by pointer. The record has exactly one logical owner and
// copying the struct would split it.
type Task[T any] struct {
	noCopy noCopy

	work     WorkFunc[T]
	callback ResultCallback[T]
	opts     TaskOptions
	record   *TaskRecord
	spawner  Spawner
	queue    *CallbackQueue
}

// NewTask binds work, callback and options. The callback may be nil for
// fire-and-forget use.
func NewTask[T any](work WorkFunc[T], callback ResultCallback[T], opts TaskOptions) *Task[T] {
	return &Task[T]{
		work:     work,
		callback: callback,
		opts:     opts,
		record:   NewTaskRecord(),
		spawner:  CurrentSpawner(),
		queue:    SharedQueue(),
	}
}

// NewVoidTask binds a work function that produces no value. The
// callback, if any, is invoked with no arguments.
func NewVoidTask(work func(ctx context.Context) error, callback func(), opts TaskOptions) *Task[struct{}] {
	var wrapped WorkFunc[struct{}]
	if work != nil {
		wrapped = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, work(ctx)
		}
	}
	var cb ResultCallback[struct{}]
	if callback != nil {
		cb = func(struct{}) { callback() }
	}
	return NewTask(wrapped, cb, opts)
}

// WithSpawner overrides the spawner for this task. Mainly for tests and
// hosts with platform-specific scheduling.
func (t *Task[T]) WithSpawner(s Spawner) *Task[T] {
	if s != nil {
		t.spawner = s
	}
	return t
}

// WithQueue overrides the callback queue deferred callbacks go to.
func (t *Task[T]) WithQueue(q *CallbackQueue) *Task[T] {
	if q != nil {
		t.queue = q
	}
	return t
}

// Start resolves the effective configuration over the process-wide
// defaults and asks the spawner for a context running the trampoline.
//
// It returns ErrNoWork when no work function is bound (the record stays
// pending), ErrAlreadyStarted on reuse, or the spawner's error wrapped
// in ErrSpawnFailed (the record moves to StateFailed). Start does not
// wait for the spawned context to reach any particular point.
func (t *Task[T]) Start() error {
	if t.work == nil {
		currentLogger().Error("task has no work function bound", F("id", t.record.ID().String()))
		return ErrNoWork
	}
	if t.record.State() != StatePending {
		return ErrAlreadyStarted
	}

	resolved := t.opts.Resolve(CurrentConfig())
	if resolved.Name == "" {
		resolved.Name = fmt.Sprintf("task-%d", taskCounter.Add(1))
	}
	t.record.setName(resolved.Name)

	record := t.record
	work := t.work
	callback := t.callback
	queue := t.queue

	// The worker must not observe the record before Activate has run,
	// so the trampoline waits for the gate the caller closes after a
	// successful spawn.
	gate := make(chan struct{})
	trampoline := func(ctx context.Context) {
		<-gate
		runTrampoline(ctx, record, work, callback, queue, resolved.Dispatch)
	}

	handle, err := t.spawner.Spawn(SpawnSpec{
		Name:      resolved.Name,
		StackSize: resolved.StackSize,
		Priority:  resolved.Priority,
		Affinity:  resolved.Affinity,
	}, trampoline)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrSpawnFailed, err)
		record.Fail(wrapped)
		sharedHistory.Add(record.Snapshot())
		currentMetrics().RecordSpawnFailure(resolved.Name)
		currentLogger().Error("failed to create task context",
			F("task", resolved.Name), F("error", err))
		close(gate)
		return wrapped
	}

	record.Activate(handle)
	close(gate)
	currentLogger().Debug("task context created",
		F("task", resolved.Name),
		F("stack", resolved.StackSize),
		F("priority", resolved.Priority),
		F("affinity", resolved.Affinity.String()),
	)
	return nil
}

// Cancel delegates to the record: sets the monotonic cancellation flag
// and, if the task is running, kills its context. See TaskRecord.Cancel
// for the resource hazard this carries.
func (t *Task[T]) Cancel() {
	t.record.Cancel()
}

// Record returns the task's lifecycle record, e.g. for Supervisor.Track.
func (t *Task[T]) Record() *TaskRecord {
	return t.record
}

// State returns the current lifecycle state.
func (t *Task[T]) State() TaskState {
	return t.record.State()
}

// IsRunning reports whether the task is running and not cancelled.
func (t *Task[T]) IsRunning() bool {
	return t.record.IsRunning()
}

// IsCancelled reports whether cancellation was ever requested.
func (t *Task[T]) IsCancelled() bool {
	return t.record.IsCancelled()
}

// ExecutionTime returns the task's execution time so far, or its final
// duration once it has ended.
func (t *Task[T]) ExecutionTime() time.Duration {
	return t.record.ExecutionTime()
}

// runTrampoline executes the work function inside the spawned context
// and routes the outcome through the record and the configured dispatch
// path. The context is run-to-completion: the goroutine ends when the
// trampoline returns.
func runTrampoline[T any](
	ctx context.Context,
	record *TaskRecord,
	work WorkFunc[T],
	callback ResultCallback[T],
	queue *CallbackQueue,
	dispatch DispatchMode,
) {
	defer func() {
		if snap := record.Snapshot(); snap.State.IsTerminal() {
			sharedHistory.Add(snap)
			currentMetrics().RecordTaskDuration(snap.Name, snap.State, snap.Duration)
		}
	}()

	if record.IsCancelled() {
		record.SetState(StateCancelled)
		currentLogger().Debug("task cancelled before execution", F("task", record.Name()))
		return
	}

	value, err := runGuarded(ctx, record, work)
	if err != nil {
		record.Fail(err)
		currentMetrics().RecordTaskFault(record.Name())
		currentLogger().Warn("task failed", F("task", record.Name()), F("error", err))
		return
	}

	// A cancel that lands after the work finished loses: the record is
	// already Completed and the callback is delivered. A cancel that
	// won suppresses the callback entirely.
	if !record.SetState(StateCompleted) {
		return
	}

	if callback == nil {
		return
	}
	if dispatch == DispatchInline {
		callback(value)
		return
	}
	queue.Enqueue(func() { callback(value) })
}

// runGuarded is the fault boundary: a panic in the work function is
// recovered here, reported to the fault handler and converted into an
// error. It never escapes to the spawner.
func runGuarded[T any](ctx context.Context, record *TaskRecord, work WorkFunc[T]) (value T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			currentFaultHandler().HandleFault(record.Name(), record.ID(), rec, debug.Stack())
			err = fmt.Errorf("easyasync: task panic: %v", rec)
		}
	}()
	return work(ctx)
}

// noCopy triggers go vet's copylocks check when a Task is copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
