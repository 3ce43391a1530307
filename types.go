package easyasync

import "github.com/Helix128/EasyAsync/core"

// Re-export commonly used types from the core package for convenience.
// This allows most hosts to import only the easyasync package.

// TaskState describes where a task is in its lifecycle
type TaskState = core.TaskState

// Task lifecycle states
const (
	StatePending   TaskState = core.StatePending
	StateRunning   TaskState = core.StateRunning
	StateCompleted TaskState = core.StateCompleted
	StateFailed    TaskState = core.StateFailed
	StateCancelled TaskState = core.StateCancelled
)

// Task binds a work function and callback to one schedulable context
type Task[T any] = core.Task[T]

// WorkFunc produces a task's result inside the worker context
type WorkFunc[T any] = core.WorkFunc[T]

// ResultCallback receives the produced value
type ResultCallback[T any] = core.ResultCallback[T]

// TaskRecord tracks the lifecycle of one spawned task
type TaskRecord = core.TaskRecord

// TaskID identifies a task in logs, metrics and history
type TaskID = core.TaskID

// Config holds the process-wide defaults
type Config = core.Config

// TaskOptions overrides the defaults for a single task
type TaskOptions = core.TaskOptions

// DispatchMode selects where a task's callback runs
type DispatchMode = core.DispatchMode

// Dispatch modes
const (
	DispatchUnset    DispatchMode = core.DispatchUnset
	DispatchDeferred DispatchMode = core.DispatchDeferred
	DispatchInline   DispatchMode = core.DispatchInline
)

// CPUAffinity selects core placement for a task
type CPUAffinity = core.CPUAffinity

// Affinity sentinels
const (
	AffinityDefault CPUAffinity = core.AffinityDefault
	AffinityNone    CPUAffinity = core.AffinityNone
)

// CallbackQueue is the thread-safe FIFO of deferred callbacks
type CallbackQueue = core.CallbackQueue

// PumpLoop drains a callback queue from a dedicated goroutine
type PumpLoop = core.PumpLoop

// Supervisor joins or cancels a set of live tasks
type Supervisor = core.Supervisor

// Spawner creates schedulable contexts
type Spawner = core.Spawner

// SpawnSpec describes the context a task wants
type SpawnSpec = core.SpawnSpec

// SpawnHandle refers to a live execution context
type SpawnHandle = core.SpawnHandle

// Logger is the structured logging interface
type Logger = core.Logger

// Metrics is the observability hook interface
type Metrics = core.Metrics

// TaskExecutionRecord captures the outcome of one finished task
type TaskExecutionRecord = core.TaskExecutionRecord

// Sentinel errors
var (
	ErrNoWork         = core.ErrNoWork
	ErrAlreadyStarted = core.ErrAlreadyStarted
	ErrSpawnFailed    = core.ErrSpawnFailed
	ErrLoopClosed     = core.ErrLoopClosed
)

// Convenience constructors and hooks re-exported from core
var (
	DefaultConfig    = core.DefaultConfig
	PinTo            = core.PinTo
	NewCallbackQueue = core.NewCallbackQueue
	NewPumpLoop      = core.NewPumpLoop
	NewSupervisor    = core.NewSupervisor
	SharedQueue      = core.SharedQueue
	SharedHistory    = core.SharedHistory
	SetLogger        = core.SetLogger
	SetMetrics       = core.SetMetrics
	SetFaultHandler  = core.SetFaultHandler
	SetSpawner       = core.SetSpawner
)
