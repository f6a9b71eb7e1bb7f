// Package debounce delays an action until input has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period of the installment lookup.
const DefaultDelay = 500 * time.Millisecond

// Handle is a scheduled action.
type Handle struct {
	timer *time.Timer
	once  sync.Once
	done  chan struct{}
}

// Stop cancels the action. It reports whether the call stopped the action
// before it ran.
func (h *Handle) Stop() bool {
	if h == nil {
		return false
	}
	stopped := h.timer.Stop()
	if stopped {
		h.once.Do(func() { close(h.done) })
	}
	return stopped
}

// Done is closed once the action has run or has been stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Debouncer keeps at most one pending action. Each Schedule cancels the
// previous pending action before scheduling the new one.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending *Handle
}

// New returns a Debouncer that waits delay before running an action.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule runs fn after the delay unless another Schedule or Cancel comes first.
func (d *Debouncer) Schedule(fn func()) *Handle {
	return d.ScheduleAfter(d.delay, fn)
}

// ScheduleAfter is Schedule with an explicit delay.
func (d *Debouncer) ScheduleAfter(delay time.Duration, fn func()) *Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}

	h := &Handle{done: make(chan struct{})}
	h.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.pending == h {
			d.pending = nil
		}
		d.mu.Unlock()

		fn()
		h.once.Do(func() { close(h.done) })
	})
	d.pending = h
	return h
}

// Cancel stops the pending action, if any.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return false
	}
	stopped := d.pending.Stop()
	d.pending = nil
	return stopped
}

// Pending reports whether an action is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
