// Package autosave provides the single-slot delayed task behind debounced
// saves: at most one task is pending, and scheduling a new one replaces it.
package autosave

import (
	"sync"
	"time"
)

// DefaultDelay is the inactivity window before a debounced save fires.
const DefaultDelay = 800 * time.Millisecond

// Debouncer runs the most recently scheduled task once no new task has
// been scheduled for the configured delay.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	task  func()
	gen   uint64
}

// New returns a Debouncer with delay; non-positive delays use DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the inactivity window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule replaces any pending task with task and restarts the timer.
// The replaced task is dropped, not queued.
func (d *Debouncer) Schedule(task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.task = task
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending task. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.task != nil
	d.stopLocked()
	return pending
}

// Flush runs the pending task immediately on the calling goroutine.
// It reports whether a task ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	task := d.task
	d.stopLocked()
	d.mu.Unlock()

	if task == nil {
		return false
	}
	task()
	return true
}

// Pending reports whether a task is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.task != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.task == nil {
		// superseded after the timer had already fired
		d.mu.Unlock()
		return
	}
	task := d.task
	d.task = nil
	d.timer = nil
	d.mu.Unlock()

	task()
}

// stopLocked clears the slot. The generation bump makes a callback that
// already fired a no-op.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.task = nil
	d.gen++
}
