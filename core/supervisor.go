package core

import (
	"context"
	"sync"
)

// Supervisor owns a set of live task records so a host can join them on
// natural completion or force the stragglers down. Track started tasks
// only: a record that never starts never terminates, and Wait would
// block on it forever.
type Supervisor struct {
	mu      sync.Mutex
	records []*TaskRecord
}

// NewSupervisor creates an empty supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

// Track registers a started task's record.
func (s *Supervisor) Track(r *TaskRecord) {
	if r == nil {
		return
	}
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
}

func (s *Supervisor) snapshot() []*TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*TaskRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Live returns the tracked records that have not reached a terminal
// state.
func (s *Supervisor) Live() []*TaskRecord {
	var live []*TaskRecord
	for _, r := range s.snapshot() {
		if !r.State().IsTerminal() {
			live = append(live, r)
		}
	}
	return live
}

// Wait blocks until every tracked record reaches a terminal state or
// ctx ends.
func (s *Supervisor) Wait(ctx context.Context) error {
	for _, r := range s.snapshot() {
		select {
		case <-r.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// CancelAll cancels every tracked record that is still live. The same
// hazards as TaskRecord.Cancel apply to each.
func (s *Supervisor) CancelAll() {
	for _, r := range s.snapshot() {
		r.Cancel()
	}
}
