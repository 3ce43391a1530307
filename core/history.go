package core

import (
	"sync"
	"time"
)

const defaultHistoryCapacity = 100

// TaskExecutionRecord captures the outcome of one finished task.
type TaskExecutionRecord struct {
	ID         TaskID
	Name       string
	State      TaskState
	Cancelled  bool
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Err        error
}

// History is a fixed-capacity ring of recent task outcomes, newest
// first on read.
type History struct {
	mu    sync.Mutex
	items []TaskExecutionRecord
	head  int
	count int
}

// NewHistory creates a history retaining up to capacity records.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = defaultHistoryCapacity
	}
	return &History{items: make([]TaskExecutionRecord, capacity)}
}

// Add records one outcome, evicting the oldest when full.
func (h *History) Add(record TaskExecutionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items[h.head] = record
	h.head = (h.head + 1) % len(h.items)
	if h.count < len(h.items) {
		h.count++
	}
}

// Recent returns up to limit records, newest first. limit <= 0 returns
// everything retained.
func (h *History) Recent(limit int) []TaskExecutionRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return nil
	}
	if limit <= 0 || limit > h.count {
		limit = h.count
	}

	out := make([]TaskExecutionRecord, 0, limit)
	for i := range limit {
		idx := (h.head - 1 - i + len(h.items)) % len(h.items)
		out = append(out, h.items[idx])
	}
	return out
}

// Last returns the most recent record.
func (h *History) Last() (TaskExecutionRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return TaskExecutionRecord{}, false
	}
	idx := (h.head - 1 + len(h.items)) % len(h.items)
	return h.items[idx], true
}

// Len returns how many records are retained.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

var sharedHistory = NewHistory(defaultHistoryCapacity)

// SharedHistory returns the process-wide ring of recent task outcomes.
// Every task that reaches a terminal state lands here, including spawn
// failures.
func SharedHistory() *History {
	return sharedHistory
}
