package core

import (
	"sync/atomic"
	"time"
)

// =============================================================================
// FaultHandler: Interface for handling work-function panics
// =============================================================================

// FaultHandler is called when a work function panics inside its
// execution context. The panic never escapes the trampoline; the
// handler is the only place that sees the recovered value and stack.
//
// Implementations must be safe for concurrent use.
type FaultHandler interface {
	// HandleFault is called with the task's display name and ID, the
	// recovered panic value, and the stack trace at the time of panic.
	HandleFault(taskName string, id TaskID, fault any, stackTrace []byte)
}

// DefaultFaultHandler logs faults through the active logger.
type DefaultFaultHandler struct{}

// HandleFault logs the fault and its stack trace.
func (h *DefaultFaultHandler) HandleFault(taskName string, id TaskID, fault any, stackTrace []byte) {
	currentLogger().Error("task panicked",
		F("task", taskName),
		F("id", id.String()),
		F("fault", fault),
		F("stack", string(stackTrace)),
	)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting task execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid slowing down the
// worker contexts that call them.
type Metrics interface {
	// RecordTaskDuration records the execution time of a task that
	// reached the given terminal state.
	RecordTaskDuration(taskName string, state TaskState, duration time.Duration)

	// RecordSpawnFailure records that the environment refused to create
	// an execution context for a task.
	RecordSpawnFailure(taskName string)

	// RecordTaskFault records that a work function panicked or returned
	// an error.
	RecordTaskFault(taskName string)

	// RecordTaskCancelled records a forced cancellation of a running task.
	RecordTaskCancelled(taskName string)

	// RecordQueueDepth records the current callback queue depth.
	RecordQueueDepth(depth int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(taskName string, state TaskState, duration time.Duration) {
}

// RecordSpawnFailure is a no-op.
func (m *NilMetrics) RecordSpawnFailure(taskName string) {}

// RecordTaskFault is a no-op.
func (m *NilMetrics) RecordTaskFault(taskName string) {}

// RecordTaskCancelled is a no-op.
func (m *NilMetrics) RecordTaskCancelled(taskName string) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(depth int) {}

// =============================================================================
// Process-wide hook registration
// =============================================================================

type metricsBox struct{ m Metrics }
type faultBox struct{ h FaultHandler }

var (
	activeMetrics atomic.Value
	activeFault   atomic.Value
)

func init() {
	activeMetrics.Store(metricsBox{m: &NilMetrics{}})
	activeFault.Store(faultBox{h: &DefaultFaultHandler{}})
}

// SetMetrics replaces the process-wide metrics sink.
// Passing nil restores the no-op sink.
func SetMetrics(m Metrics) {
	if m == nil {
		m = &NilMetrics{}
	}
	activeMetrics.Store(metricsBox{m: m})
}

// SetFaultHandler replaces the process-wide fault handler.
// Passing nil restores the default logging handler.
func SetFaultHandler(h FaultHandler) {
	if h == nil {
		h = &DefaultFaultHandler{}
	}
	activeFault.Store(faultBox{h: h})
}

func currentMetrics() Metrics {
	return activeMetrics.Load().(metricsBox).m
}

func currentFaultHandler() FaultHandler {
	return activeFault.Load().(faultBox).h
}
