package core

// TaskState describes where a task is in its lifecycle.
//
// A task starts at StatePending, moves to StateRunning exactly once when
// its execution context is created, and then settles in exactly one
// terminal state. Once a terminal state is reached the record never
// changes state again.
type TaskState int

const (
	// StatePending: constructed but no execution context exists yet.
	StatePending TaskState = iota

	// StateRunning: an execution context was created and owns the task.
	StateRunning

	// StateCompleted: the work function returned normally.
	StateCompleted

	// StateFailed: the context could not be created, or the work
	// function panicked or returned an error.
	StateFailed

	// StateCancelled: the task was cancelled while running.
	StateCancelled
)

// IsTerminal reports whether no further state transitions can occur.
func (s TaskState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

func (s TaskState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
