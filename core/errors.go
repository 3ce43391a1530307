package core

import "errors"

var (
	// ErrNoWork is returned by Start when the task has no work function
	// bound. The record stays pending.
	ErrNoWork = errors.New("easyasync: no work function bound")

	// ErrAlreadyStarted is returned by Start when the task has already
	// spawned its context. A task is single-use.
	ErrAlreadyStarted = errors.New("easyasync: task already started")

	// ErrSpawnFailed wraps the spawner's error when the environment
	// refuses to create an execution context.
	ErrSpawnFailed = errors.New("easyasync: spawn failed")

	// ErrLoopClosed is returned by PumpLoop operations after Stop.
	ErrLoopClosed = errors.New("easyasync: pump loop closed")
)
