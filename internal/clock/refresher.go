// Package clock drives the periodic repaint of the menu's clock line.
package clock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atomicstack/clock-menu/internal/logging/events"
)

const (
	DefaultTick         = time.Second
	DefaultPollInterval = 50 * time.Millisecond
)

// ErrAlreadyStarted is returned when Start is called on a refresher that
// has left the Idle state.
var ErrAlreadyStarted = errors.New("clock refresher already started")

// State is the lifecycle phase of a Refresher.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Refresher calls paint roughly once per tick until stopped. It wakes every
// poll interval, so cancellation latency is bounded by the poll interval
// plus one paint.
type Refresher struct {
	paint func() error
	tick  time.Duration
	poll  time.Duration
	now   func() time.Time

	running atomic.Bool
	state   atomic.Int32
	ticks   atomic.Uint64
	fault   atomic.Pointer[error]

	// nextTick is only touched by the task goroutine once Start returns.
	nextTick time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	stopErr error
}

// Option customises a Refresher.
type Option func(*Refresher)

// WithTick sets the repaint period.
func WithTick(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.tick = d
		}
	}
}

// WithPollInterval sets how often the task wakes to check for a due tick or
// a stop request.
func WithPollInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithNow replaces the time source.
func WithNow(now func() time.Time) Option {
	return func(r *Refresher) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns an idle refresher.
func New(paint func() error, opts ...Option) *Refresher {
	r := &Refresher{
		paint: paint,
		tick:  DefaultTick,
		poll:  DefaultPollInterval,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the background task. The first repaint is due one tick
// from now.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	r.cancel = cancel
	r.group = group
	r.nextTick = r.now().Add(r.tick)
	r.running.Store(true)

	events.Clock.Start(r.tick, r.poll)
	group.Go(func() error {
		return r.loop(ctx)
	})
	return nil
}

// Stop clears the running flag, cancels the task and waits for it to exit.
// No paint happens after Stop returns. It returns the task's error and is
// safe to call more than once.
func (r *Refresher) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.State() {
	case StateIdle:
		r.state.Store(int32(StateStopped))
		return nil
	case StateStopped:
		return r.stopErr
	}

	r.state.Store(int32(StateStopping))
	r.running.Store(false)
	r.cancel()
	r.stopErr = r.group.Wait()
	r.state.Store(int32(StateStopped))
	events.Clock.Stop(r.ticks.Load())
	return r.stopErr
}

func (r *Refresher) State() State {
	return State(r.state.Load())
}

// Running reports whether the task may still paint.
func (r *Refresher) Running() bool {
	return r.running.Load()
}

// Ticks reports how many repaints completed.
func (r *Refresher) Ticks() uint64 {
	return r.ticks.Load()
}

// Err returns the paint error that ended the task, if any. It is readable
// while the task is still being joined.
func (r *Refresher) Err() error {
	if p := r.fault.Load(); p != nil {
		return *p
	}
	return nil
}

func (r *Refresher) loop(ctx context.Context) error {
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if !r.running.Load() {
			return nil
		}
		now := r.now()
		if now.Before(r.nextTick) {
			continue
		}
		if err := r.paint(); err != nil {
			r.fault.Store(&err)
			r.running.Store(false)
			events.Clock.Fault(err)
			return err
		}
		r.ticks.Add(1)
		// next wall-clock boundary after now
		r.nextTick = now.Truncate(r.tick).Add(r.tick)
	}
}
