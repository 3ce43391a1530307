package core

import "sync"

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// Callback is a deferred zero-argument callable produced by a finished
// task, closed over whatever value the work function returned.
type Callback func()

// CallbackQueue is a thread-safe FIFO of deferred callbacks. Worker
// contexts append to it; whichever goroutine calls Drain removes and
// invokes the entries, normally the host's consumer loop.
//
// Callbacks enqueued by one producer in order are drained in that
// order. No ordering holds across concurrent producers beyond each
// producer's own sequence.
type CallbackQueue struct {
	mu  sync.Mutex
	cbs []Callback
}

// NewCallbackQueue creates an empty queue.
func NewCallbackQueue() *CallbackQueue {
	return &CallbackQueue{cbs: make([]Callback, 0, defaultQueueCap)}
}

// Enqueue appends cb. Safe from any goroutine, including from inside a
// callback currently being drained. nil callbacks are dropped.
func (q *CallbackQueue) Enqueue(cb Callback) {
	if cb == nil {
		return
	}
	q.mu.Lock()
	q.cbs = append(q.cbs, cb)
	depth := len(q.cbs)
	q.mu.Unlock()

	currentMetrics().RecordQueueDepth(depth)
}

// Drain invokes queued callbacks in FIFO order until the queue is
// empty. If another drain is already in flight, Drain returns
// immediately; only one drain ever runs at a time.
//
// The lock is released around every invocation. A callback may enqueue
// more work or take unbounded time without deadlocking the queue or
// starving producers; entries enqueued mid-drain run in the same pass.
func (q *CallbackQueue) Drain() {
	if !q.mu.TryLock() {
		return
	}
	for len(q.cbs) > 0 {
		cb := q.cbs[0]
		// Zero out the element in the underlying array to prevent memory leak
		q.cbs[0] = nil
		q.cbs = q.cbs[1:]
		q.maybeCompactLocked()
		q.mu.Unlock()

		cb()

		q.mu.Lock()
	}
	q.maybeCompactLocked()
	q.mu.Unlock()

	currentMetrics().RecordQueueDepth(0)
}

// Size returns a blocking snapshot of the current queue length, for
// observability only.
func (q *CallbackQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cbs)
}

func (q *CallbackQueue) maybeCompactLocked() {
	n := len(q.cbs)
	c := cap(q.cbs)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.cbs = make([]Callback, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	compacted := make([]Callback, n, newCap)
	copy(compacted, q.cbs)
	q.cbs = compacted
}

// =============================================================================
// Process-wide queue
// =============================================================================

var sharedQueue = NewCallbackQueue()

// SharedQueue returns the process-wide callback queue used by tasks
// that do not bind their own.
func SharedQueue() *CallbackQueue {
	return sharedQueue
}
