// Package activity tracks whether the user is actively scrolling.
//
// The tracker is advisory UI state (a "Scrolling..." indicator); it never gates
// range computation.
package activity

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultQuietPeriod is how long scrolling must pause before the tracker goes idle.
const DefaultQuietPeriod = 150 * time.Millisecond

// State is the tracker state.
type State int

// Tracker states.
const (
	Idle State = iota
	Active
)

// String returns the state name.
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithQuietPeriod sets the debounce window. Non-positive values keep the default.
func WithQuietPeriod(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.quiet = d
		}
	}
}

// WithClock replaces the real clock, typically with a ManualClock.
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithOnChange registers a callback invoked on every Idle/Active transition.
// It runs without the state lock held, so it may call State or Active, but it
// must not call Notify or Dispose on the same tracker. Dispose waits for an
// in-flight callback to return and no callback starts after it.
func WithOnChange(fn func(active bool)) Option {
	return func(t *Tracker) {
		t.onChange = fn
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// Tracker is a debounced Idle/Active state machine fed by scroll notifications.
//
// At most one timer is pending at any time. Each timer carries the generation
// that scheduled it; a fire from an older generation, or after Dispose, is ignored.
//
// cbMu serializes transitions and their callbacks with Dispose. Lock order is
// cbMu then mu.
type Tracker struct {
	cbMu     sync.Mutex
	mu       sync.Mutex
	clock    Clock
	quiet    time.Duration
	state    State
	timer    Timer
	gen      uint64
	disposed bool
	onChange func(active bool)
	logger   zerolog.Logger
}

// NewTracker creates an idle tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		clock:  RealClock{},
		quiet:  DefaultQuietPeriod,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Notify records a scroll event. The tracker becomes Active and the quiet
// period restarts.
func (t *Tracker) Notify() {
	t.cbMu.Lock()
	defer t.cbMu.Unlock()

	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = t.clock.AfterFunc(t.quiet, func() { t.settle(gen) })

	changed := t.state != Active
	t.state = Active
	onChange := t.onChange
	t.mu.Unlock()

	if changed {
		t.logger.Trace().Msg("scroll activity started")
		if onChange != nil {
			onChange(true)
		}
	}
}

// settle is the timer callback for generation gen.
func (t *Tracker) settle(gen uint64) {
	t.cbMu.Lock()
	defer t.cbMu.Unlock()

	t.mu.Lock()
	if t.disposed || gen != t.gen || t.state != Active {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.state = Idle
	onChange := t.onChange
	t.mu.Unlock()

	t.logger.Trace().Msg("scroll activity settled")
	if onChange != nil {
		onChange(false)
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Active reports whether the user is scrolling.
func (t *Tracker) Active() bool {
	return t.State() == Active
}

// QuietPeriod returns the debounce window.
func (t *Tracker) QuietPeriod() time.Duration {
	return t.quiet
}

// Dispose stops the pending timer and detaches the tracker. It is idempotent.
// It waits for a callback already in progress; after it returns the tracker
// stays Idle, ignores notifications and never invokes the callback again.
func (t *Tracker) Dispose() {
	t.cbMu.Lock()
	defer t.cbMu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed {
		return
	}
	t.disposed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.state = Idle
	t.onChange = nil
}
