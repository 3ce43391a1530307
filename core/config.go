package core

import (
	"strconv"
	"sync"
	"time"
)

// DispatchMode selects where a task's callback runs.
type DispatchMode int

const (
	// DispatchUnset falls back to the process-wide default when the
	// task starts.
	DispatchUnset DispatchMode = iota

	// DispatchDeferred enqueues the callback to the callback queue; it
	// runs on whichever goroutine pumps the queue.
	DispatchDeferred

	// DispatchInline invokes the callback on the worker context,
	// immediately after the work function returns.
	DispatchInline
)

func (m DispatchMode) String() string {
	switch m {
	case DispatchDeferred:
		return "deferred"
	case DispatchInline:
		return "inline"
	default:
		return "unset"
	}
}

// CPUAffinity selects core placement for a task's execution context.
// The zero value inherits the process-wide default.
type CPUAffinity int

const (
	// AffinityDefault inherits the process-wide default.
	AffinityDefault CPUAffinity = 0

	// AffinityNone runs the context with no core preference.
	AffinityNone CPUAffinity = -1
)

// PinTo returns the affinity pinning a context to the given zero-based core.
func PinTo(cpu int) CPUAffinity {
	return CPUAffinity(cpu + 1)
}

// Core returns the pinned zero-based core number, or false when the
// affinity expresses no pinning.
func (a CPUAffinity) Core() (int, bool) {
	if a > 0 {
		return int(a) - 1, true
	}
	return 0, false
}

func (a CPUAffinity) String() string {
	if cpu, ok := a.Core(); ok {
		return "core " + strconv.Itoa(cpu)
	}
	if a == AffinityDefault {
		return "default"
	}
	return "any"
}

// Config holds the process-wide defaults applied to every task whose
// options leave the matching field unset.
type Config struct {
	// StackSize is the stack budget, in bytes, requested for each
	// worker context.
	StackSize uint32

	// Priority is the relative scheduling priority handed to the
	// spawner. Higher is more urgent.
	Priority int

	// Affinity places worker contexts on a specific core, or leaves
	// placement to the scheduler.
	Affinity CPUAffinity

	// MaxConcurrentTasks is declared but not enforced: task creation is
	// unconditional and limited only by the spawner's own resource
	// exhaustion, which surfaces as a spawn error.
	MaxConcurrentTasks int

	// Dispatch selects deferred (pump) or inline callback delivery for
	// tasks that do not override it.
	Dispatch DispatchMode
}

// DefaultConfig returns the defaults the library starts with.
func DefaultConfig() Config {
	return Config{
		StackSize:          4096,
		Priority:           1,
		Affinity:           AffinityNone,
		MaxConcurrentTasks: 10,
		Dispatch:           DispatchDeferred,
	}
}

// TaskOptions overrides the process-wide defaults for a single task.
// Zero and sentinel fields fall back to the matching default at the
// moment the task starts, not when it is constructed.
type TaskOptions struct {
	// StackSize overrides the stack budget. 0 inherits the default.
	StackSize uint32

	// Priority overrides the scheduling priority. Values <= 0 inherit
	// the default.
	Priority int

	// Affinity overrides core placement. AffinityDefault inherits.
	Affinity CPUAffinity

	// Name is the display name used in logs and metrics. Empty names
	// are replaced with a generated one when the task starts.
	Name string

	// Timeout is declared but not enforced: no code path aborts a task
	// that exceeds it.
	Timeout time.Duration

	// Dispatch overrides callback delivery. DispatchUnset inherits.
	Dispatch DispatchMode
}

// ResolvedOptions is a TaskOptions with every field settled against the
// process-wide defaults.
type ResolvedOptions struct {
	Name      string
	StackSize uint32
	Priority  int
	Affinity  CPUAffinity
	Timeout   time.Duration
	Dispatch  DispatchMode
}

// Resolve merges o over def. Called when the task starts.
func (o TaskOptions) Resolve(def Config) ResolvedOptions {
	r := ResolvedOptions{
		Name:      o.Name,
		StackSize: o.StackSize,
		Priority:  o.Priority,
		Affinity:  o.Affinity,
		Timeout:   o.Timeout,
		Dispatch:  o.Dispatch,
	}
	if r.StackSize == 0 {
		r.StackSize = def.StackSize
	}
	if r.Priority <= 0 {
		r.Priority = def.Priority
	}
	if r.Affinity == AffinityDefault {
		r.Affinity = def.Affinity
		if r.Affinity == AffinityDefault {
			r.Affinity = AffinityNone
		}
	}
	if r.Dispatch == DispatchUnset {
		r.Dispatch = def.Dispatch
		if r.Dispatch == DispatchUnset {
			r.Dispatch = DispatchDeferred
		}
	}
	return r
}

// =============================================================================
// Process-wide defaults
// =============================================================================

var (
	processMu     sync.Mutex
	processConfig = DefaultConfig()
)

// SetConfig replaces the process-wide defaults. Tasks resolve their
// options against whatever defaults are current when Start runs, so
// calling this concurrently with in-flight task creation gives those
// tasks an unpredictable mix of old and new defaults. Set it up front.
func SetConfig(cfg Config) {
	processMu.Lock()
	processConfig = cfg
	processMu.Unlock()
	currentLogger().Debug("process defaults updated",
		F("stack", cfg.StackSize),
		F("priority", cfg.Priority),
		F("dispatch", cfg.Dispatch.String()),
	)
}

// CurrentConfig returns a copy of the process-wide defaults.
func CurrentConfig() Config {
	processMu.Lock()
	defer processMu.Unlock()
	return processConfig
}
