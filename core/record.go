package core

import (
	"sync"
	"time"
)

// TaskRecord tracks the lifecycle of one spawned task: its state, the
// native context handle, the monotonic cancellation flag and the
// start/end timestamps. It is shared by reference between the owning
// Task and the worker trampoline and stays valid after either side is
// done with it.
//
// Every field is guarded by one mutex. Cancellation and natural
// completion therefore serialize: whichever reaches a terminal state
// first wins and the loser's transition is dropped.
type TaskRecord struct {
	mu        sync.Mutex
	id        TaskID
	name      string
	handle    SpawnHandle
	state     TaskState
	cancelled bool
	startedAt time.Time
	endedAt   time.Time
	err       error
	done      chan struct{}
}

// NewTaskRecord returns a pending record with a fresh TaskID.
func NewTaskRecord() *TaskRecord {
	return &TaskRecord{
		id:    GenerateTaskID(),
		state: StatePending,
		done:  make(chan struct{}),
	}
}

// ID returns the record's task ID.
func (r *TaskRecord) ID() TaskID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Name returns the task's display name; empty until the task starts.
func (r *TaskRecord) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

func (r *TaskRecord) setName(name string) {
	r.mu.Lock()
	r.name = name
	r.mu.Unlock()
}

// Activate transitions the record from StatePending to StateRunning,
// stores the native handle and stamps the start time. Calls in any
// other state are ignored.
func (r *TaskRecord) Activate(h SpawnHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePending {
		return
	}
	r.handle = h
	r.state = StateRunning
	r.startedAt = time.Now()
}

// SetState applies s and reports whether the transition took effect.
// Terminal states are sticky: once the record has ended, further
// transitions are dropped. The end time is stamped on the first entry
// into a terminal state and never again.
func (r *TaskRecord) SetState(s TaskState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setStateLocked(s)
}

func (r *TaskRecord) setStateLocked(s TaskState) bool {
	if r.state.IsTerminal() {
		return false
	}
	r.state = s
	if s.IsTerminal() {
		r.endedAt = time.Now()
		r.handle = nil
		close(r.done)
	}
	return true
}

// Fail marks the record failed and retains the fault for Err.
func (r *TaskRecord) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setStateLocked(StateFailed) {
		r.err = err
	}
}

// Cancel sets the cancellation flag. If the task is running, the record
// moves to StateCancelled, the end time is stamped and the native
// context is killed. The flag is monotonic: once set it is never
// cleared, and a task cancelled before starting will refuse to run.
//
// The kill is best-effort and non-cooperative: locks, buffers and open
// handles acquired by the work function are not released. That burden
// is the caller's.
func (r *TaskRecord) Cancel() {
	r.mu.Lock()
	r.cancelled = true
	var h SpawnHandle
	killed := false
	if r.state == StateRunning {
		h = r.handle
		killed = r.setStateLocked(StateCancelled)
	}
	name := r.name
	r.mu.Unlock()

	if killed {
		if h != nil {
			h.Kill()
		}
		currentMetrics().RecordTaskCancelled(name)
		currentLogger().Debug("task cancelled", F("task", name))
	}
}

// State returns the current lifecycle state.
func (r *TaskRecord) State() TaskState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsCancelled reports whether cancellation was ever requested.
func (r *TaskRecord) IsCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// IsRunning reports whether the task is running and not cancelled.
func (r *TaskRecord) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateRunning && !r.cancelled
}

// Err returns the retained fault for a failed task, nil otherwise.
func (r *TaskRecord) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Done returns a channel closed when the record reaches a terminal
// state. A record that never starts never closes it.
func (r *TaskRecord) Done() <-chan struct{} {
	return r.done
}

// ExecutionTime returns zero before the task starts, a live estimate
// while it runs, and the fixed end-minus-start duration once it ends.
func (r *TaskRecord) ExecutionTime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executionTimeLocked()
}

func (r *TaskRecord) executionTimeLocked() time.Duration {
	switch {
	case r.startedAt.IsZero():
		return 0
	case r.endedAt.IsZero():
		return time.Since(r.startedAt)
	default:
		return r.endedAt.Sub(r.startedAt)
	}
}

// Snapshot returns the record's current observable state as a history
// record.
func (r *TaskRecord) Snapshot() TaskExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return TaskExecutionRecord{
		ID:         r.id,
		Name:       r.name,
		State:      r.state,
		Cancelled:  r.cancelled,
		StartedAt:  r.startedAt,
		FinishedAt: r.endedAt,
		Duration:   r.executionTimeLocked(),
		Err:        r.err,
	}
}
