package component

import (
	"fmt"
	"sync"
	"time"
)

// ClockState is the state of a Clock: a running flag plus a monotonically
// increasing tick counter that resets to zero on every start.
type ClockState struct {
	Running bool
	Tick    int
}

// Equals reports whether other is a ClockState with the same running flag
// and tick count.
func (s ClockState) Equals(other State) (bool, error) {
	o, ok := other.(ClockState)
	if !ok {
		return false, fmt.Errorf("%w: expected component.ClockState, got %T", ErrStateMismatch, other)
	}
	return s == o, nil
}

// Clock is a component that ticks on its own background goroutine.
//
// The running flag lives in the clock's state and is only read and written
// inside Apply closures, so stop requests and tick commits are serialised by
// the same commit lock and can never interleave unsafely. Start and Stop
// additionally guard the goroutine handle with a lifecycle mutex.
type Clock struct {
	*Component

	// interval between ticks; zero or negative means tick as fast as the
	// scheduler allows.
	interval time.Duration
	logger   Logger

	// lifecycleMu guards the goroutine handle. The loop itself never takes
	// it, so Stop may hold it across the join without deadlocking.
	lifecycleMu sync.Mutex
	done        chan struct{} // non-nil while a loop goroutine is alive; closed on loop exit

	// stopRequested latches a Stop that raced the loop's initial
	// Running(tick=0) commit. It is only touched inside Apply closures,
	// so the commit lock guards it.
	stopRequested bool
}

// NewClock creates a stopped clock. interval is the pause between ticks;
// pass zero to tick as quickly as possible.
func NewClock(interval time.Duration) *Clock {
	return &Clock{
		Component: New(ClockState{Running: false, Tick: 0}),
		interval:  interval,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the clock and its underlying component.
func (c *Clock) SetLogger(logger Logger) {
	c.Component.SetLogger(logger)
	c.logger = logger
}

// Start spawns the tick loop if it is not already running and returns
// immediately. The loop goroutine independently commits the initial
// Running(tick=0) transition, so observers may see it shortly after Start
// returns rather than before.
//
// Starting a running clock is benign: it logs a warning and does nothing.
func (c *Clock) Start() {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.done != nil {
		c.logger.Warn("attempted to start clock that is running")
		return
	}

	done := make(chan struct{})
	c.done = done
	go c.run(done)
}

// Stop requests loop termination and blocks until the loop goroutine has
// fully exited, which may take up to one tick interval if the loop is
// mid-sleep. The stop request is committed through the same lock as tick
// commits, so no tick can land after Stop returns.
//
// Stopping a clock that is not running is benign: it logs a warning and
// returns without blocking.
func (c *Clock) Stop() {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	done := c.done
	if done == nil {
		c.logger.Warn("attempted to stop clock that is not running")
		return
	}
	c.done = nil

	// Flip the running flag under the commit lock. The transition notifies
	// observers on this goroutine; the loop observes the flag on its next
	// commit attempt and exits. The latch covers a Stop that lands before
	// the loop has committed its initial state.
	_, _ = c.Apply(func(s State) State {
		c.stopRequested = true
		cs := s.(ClockState)
		if !cs.Running {
			return nil
		}
		return ClockState{Running: false, Tick: cs.Tick}
	})

	<-done
	c.logger.Info("stopped clock")
}

// run is the clock loop. It commits Running(tick=0), ticks until it observes
// a stop, then performs one final stopped commit and exits.
func (c *Clock) run(done chan struct{}) {
	defer close(done)

	stopped := false

	// Reset the tick counter. A stop that won the race to the commit lock
	// leaves the state untouched and the loop exits without ticking.
	_, _ = c.Apply(func(State) State {
		if c.stopRequested {
			stopped = true
			return nil
		}
		return ClockState{Running: true, Tick: 0}
	})

	for !stopped {
		// Sleep first, then re-check the flag under the commit lock: a stop
		// issued mid-sleep is observed before another tick can land.
		if c.interval > 0 {
			time.Sleep(c.interval)
		}

		_, _ = c.Apply(func(s State) State {
			cs := s.(ClockState)
			if c.stopRequested || !cs.Running {
				stopped = true
				return nil
			}
			return ClockState{Running: true, Tick: cs.Tick + 1}
		})
	}

	// Final stopped commit. When Stop initiated the exit this is a no-op;
	// it matters when an observer flipped the running flag directly.
	_, _ = c.Apply(func(s State) State {
		c.stopRequested = false
		cs := s.(ClockState)
		if !cs.Running {
			return nil
		}
		return ClockState{Running: false, Tick: cs.Tick}
	})
}
