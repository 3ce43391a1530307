package core

import (
	"context"
	"fmt"
	"sync/atomic"
)

// SpawnSpec describes the schedulable context a task wants: a display
// name, a stack budget in bytes, a relative priority, and optional core
// pinning.
type SpawnSpec struct {
	Name      string
	StackSize uint32
	Priority  int
	Affinity  CPUAffinity
}

// SpawnHandle refers to a live execution context created by a Spawner.
type SpawnHandle interface {
	// Kill forcibly terminates the context with no guaranteed cleanup.
	// Resources held by the work function are not released.
	Kill()
}

// Spawner creates schedulable execution contexts. The default
// implementation runs each context on its own goroutine; hosts with
// platform-specific scheduling (OS threads, real-time priorities) can
// install their own via SetSpawner.
type Spawner interface {
	// Spawn creates a new context running fn and returns a handle to
	// it, or an error if the environment refuses to create one.
	//
	// Spawn must not run fn on the calling goroutine: the caller
	// finishes activating the task's record after Spawn returns.
	Spawn(spec SpawnSpec, fn func(ctx context.Context)) (SpawnHandle, error)
}

// GoroutineSpawner runs each context on a dedicated goroutine.
//
// Goroutines cannot be preemptively terminated and the runtime owns
// their stacks and placement: Kill cancels the context's
// context.Context and abandons the goroutine, and StackSize, Priority
// and Affinity are accepted but not applied. A work function that never
// observes its context keeps running until it returns on its own, and
// whatever it holds at that point is its own problem.
type GoroutineSpawner struct{}

func (GoroutineSpawner) Spawn(spec SpawnSpec, fn func(ctx context.Context)) (SpawnHandle, error) {
	if fn == nil {
		return nil, fmt.Errorf("spawn %q: nil context body", spec.Name)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		fn(ctx)
	}()
	return &goroutineHandle{cancel: cancel}, nil
}

type goroutineHandle struct {
	cancel context.CancelFunc
}

func (h *goroutineHandle) Kill() {
	h.cancel()
}

// =============================================================================
// Process-wide spawner
// =============================================================================

type spawnerBox struct{ s Spawner }

var activeSpawner atomic.Value

func init() {
	activeSpawner.Store(spawnerBox{s: GoroutineSpawner{}})
}

// SetSpawner replaces the process-wide spawner used by tasks that do
// not bind their own. Passing nil restores the GoroutineSpawner.
func SetSpawner(s Spawner) {
	if s == nil {
		s = GoroutineSpawner{}
	}
	activeSpawner.Store(spawnerBox{s: s})
}

// CurrentSpawner returns the process-wide spawner.
func CurrentSpawner() Spawner {
	return activeSpawner.Load().(spawnerBox).s
}
