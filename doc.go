// Package easyasync spawns background tasks that optionally return a
// value and deliver it through a callback, either inline on the worker
// context or deferred to the host's own consumer loop.
//
// Every started task gets its own schedulable context (a goroutine by
// default). This is not a thread pool and not a futures library: there
// is no chaining, no worker reuse and no admission control.
//
// # Quick Start
//
// Run a task and receive its result on your own loop:
//
//	task, err := easyasync.Run(
//		func(ctx context.Context) (int, error) {
//			return expensiveComputation(), nil
//		},
//		func(n int) {
//			fmt.Println("result:", n)
//		},
//	)
//
//	for { // the host's loop
//		easyasync.Pump()
//		// ... other work ...
//	}
//
// # Dispatch Modes
//
// With DispatchDeferred (the default) the callback is queued and runs
// on whichever goroutine calls Pump. The host must pump on a regular
// cadence or deferred callbacks never run. With DispatchInline the
// callback runs on the worker context right after the work function
// returns. Hosts without a natural loop can start a core.PumpLoop
// instead of pumping by hand.
//
// # Configuration
//
// Process-wide defaults are set once with SetConfig before any task is
// created; per-task TaskOptions override individual fields, with zero
// values falling back to the defaults at start time.
//
// # Cancellation
//
// Cancel is asynchronous and not cooperative. It cancels the worker's
// context.Context and abandons the goroutine; work functions that never
// observe their context keep running until they return, and nothing
// they acquired is released. Observability is by polling State,
// ExecutionTime and the shared task history.
package easyasync
