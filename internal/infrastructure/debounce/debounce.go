// Package debounce coalesces bursts of calls into a single trailing call.
//
// A Debouncer is either idle or pending. The first Call moves it to pending
// and schedules the callback; every further Call during the window replaces
// the scheduled execution and the argument it will receive. The callback runs
// once the window elapses without another Call, after which the Debouncer is
// idle again. Cancel drops the pending execution without running it.
package debounce

import (
	"errors"
	"sync"
	"time"
)

// DefaultDelay is used when no delay is configured.
const DefaultDelay = time.Second

var ErrNegativeDelay = errors.New("debounce delay must not be negative")

// Timer is a handle on a scheduled execution.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d on a goroutine of its choosing.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	scheduler Scheduler
}

// WithScheduler replaces the time.AfterFunc based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

type state int

const (
	stateIdle state = iota
	statePending
)

// Debouncer delays fn until delay has passed since the latest Call. It is
// safe to use from several goroutines, although each instance only ever has
// one pending execution.
type Debouncer[T any] struct {
	mu        sync.Mutex
	delay     time.Duration
	fn        func(T)
	scheduler Scheduler

	state state
	timer Timer
	arg   T
	// generation identifies the current pending execution; a timer that fires
	// with an older generation was superseded or cancelled.
	generation uint64
}

// New returns a Debouncer that calls fn with the latest argument once delay
// has elapsed without further calls.
func New[T any](delay time.Duration, fn func(T), opts ...Option) (*Debouncer[T], error) {
	if delay < 0 {
		return nil, ErrNegativeDelay
	}

	o := options{scheduler: timeScheduler{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &Debouncer[T]{
		delay:     delay,
		fn:        fn,
		scheduler: o.scheduler,
	}, nil
}

// Delay returns the debounce window.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Call schedules fn(arg), discarding any execution still pending.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == statePending {
		d.timer.Stop()
	}

	d.generation++
	gen := d.generation
	d.arg = arg
	d.state = statePending
	d.timer = d.scheduler.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Cancel drops the pending execution, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != statePending {
		return
	}
	d.timer.Stop()
	d.generation++
	d.idle()
}

// Flush runs the pending execution now instead of waiting for the window to
// elapse. It reports whether anything was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.state != statePending {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.generation++
	arg := d.arg
	d.idle()
	d.mu.Unlock()

	d.fn(arg)
	return true
}

// Pending reports whether an execution is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == statePending
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.state != statePending || gen != d.generation {
		d.mu.Unlock()
		return
	}
	arg := d.arg
	d.idle()
	d.mu.Unlock()

	d.fn(arg)
}

// idle must be called with mu held.
func (d *Debouncer[T]) idle() {
	var zero T
	d.state = stateIdle
	d.timer = nil
	d.arg = zero
}
