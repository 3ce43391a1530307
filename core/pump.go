package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPumpInterval is the drain cadence a PumpLoop falls back to.
const DefaultPumpInterval = 10 * time.Millisecond

// Pump drains the shared callback queue on the calling goroutine when
// the process-wide dispatch mode is deferred; with inline dispatch it
// is a no-op.
//
// Hosts using deferred dispatch must call Pump on a regular cadence
// from one long-lived goroutine. Deferred callbacks never run
// otherwise; they stay queued indefinitely. That is a liveness
// dependency of the design, not a bug.
func Pump() {
	if CurrentConfig().Dispatch == DispatchInline {
		return
	}
	sharedQueue.Drain()
}

// PendingCallbacks reports how many callbacks await the next pump.
func PendingCallbacks() int {
	return sharedQueue.Size()
}

// PumpLoop drains a callback queue from one dedicated goroutine at a
// fixed interval, for hosts that have no natural consumer loop of
// their own. Hosts that do have one should ignore this type and call
// Pump themselves.
type PumpLoop struct {
	queue    *CallbackQueue
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	closed  atomic.Bool
	once    sync.Once
}

// NewPumpLoop creates and starts a loop draining queue every interval.
// A nil queue means the shared queue; a non-positive interval falls
// back to DefaultPumpInterval.
func NewPumpLoop(queue *CallbackQueue, interval time.Duration) *PumpLoop {
	if queue == nil {
		queue = sharedQueue
	}
	if interval <= 0 {
		interval = DefaultPumpInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &PumpLoop{
		queue:    queue,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
	go p.runLoop()
	return p
}

func (p *PumpLoop) runLoop() {
	defer close(p.stopped)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.queue.Drain()
		case <-p.ctx.Done():
			// Final drain so callbacks enqueued before Stop still run.
			p.queue.Drain()
			return
		}
	}
}

// WaitIdle blocks until every callback enqueued before the call has
// been invoked, by riding a barrier callback through the queue.
func (p *PumpLoop) WaitIdle(ctx context.Context) error {
	if p.closed.Load() {
		return ErrLoopClosed
	}

	done := make(chan struct{})
	p.queue.Enqueue(func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsClosed reports whether Stop has been called.
func (p *PumpLoop) IsClosed() bool {
	return p.closed.Load()
}

// Stop terminates the loop after a final drain and waits for the
// dedicated goroutine to exit.
func (p *PumpLoop) Stop() {
	p.once.Do(func() {
		p.closed.Store(true)
		p.cancel()
		<-p.stopped
	})
}
