package component

import "sync"

// State is an immutable snapshot of a component's externally observable
// condition. Concrete kinds are plain value structs; producing a "changed"
// state always means constructing a new value, never mutating an old one.
type State interface {
	// Equals reports whether other describes the same condition. It must be
	// reflexive, symmetric and transitive, and must return an error wrapping
	// ErrStateMismatch when other is a different concrete kind rather than
	// silently reporting false.
	Equals(other State) (bool, error)
}

// Trigger is a predicate over a newly committed state. A nil Trigger fires
// its event on every state change.
type Trigger func(State) bool

// Event is a callback fired synchronously on a qualifying state transition.
type Event func()

// Logger defines the logging interface used by this package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// registration pairs an optional trigger predicate with its event callback.
// The callback receives the newly committed state so observers rarely need
// to read the component back (which would deadlock under the commit lock).
type registration struct {
	trigger Trigger
	event   func(State)
}

// Component is the mutable holder of a current State and the single point
// through which state transitions are applied.
//
// The zero value is not usable; construct with New.
type Component struct {
	logger Logger

	mu            sync.Mutex
	state         State
	registrations []registration
}

// New creates a component holding the given initial state.
// New panics if initial is nil: a component without a state is a programming
// error that cannot be recovered at runtime.
func New(initial State) *Component {
	if initial == nil {
		panic(ErrNilState)
	}
	return &Component{
		logger: noopLogger{},
		state:  initial,
	}
}

// SetLogger sets the logger for the component.
func (c *Component) SetLogger(logger Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// State returns the current committed state. It has no side effects.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetState commits next as the current state and notifies observers.
//
// If next is equal by value to the current state the call is a no-op: no
// commit happens and no event fires. This is the debouncing guarantee every
// device relies on. Otherwise the state is replaced and each registration is
// evaluated in insertion order; events whose trigger is nil or returns true
// fire synchronously on the calling goroutine.
//
// Returns whether a commit took place. Comparing states of different concrete
// kinds returns an error wrapping ErrStateMismatch and commits nothing.
func (c *Component) SetState(next State) (bool, error) {
	return c.Apply(func(State) State { return next })
}

// Apply atomically inspects the current state and commits the state fn
// returns. fn runs under the commit lock, so the inspection and the commit
// form one critical section; returning nil leaves the state unchanged.
//
// Background loops use Apply to read their "should I keep running" flag and
// commit the next transition without a stop request interleaving between the
// two.
func (c *Component) Apply(fn func(State) State) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := fn(c.state)
	if next == nil {
		return false, nil
	}

	equal, err := c.state.Equals(next)
	if err != nil {
		return false, err
	}
	if equal {
		return false, nil
	}

	c.state = next

	// Observer panics are deliberately not recovered: masking a broken
	// callback hides bugs the integrator needs to see.
	for _, reg := range c.registrations {
		if reg.trigger == nil || reg.trigger(next) {
			reg.event(next)
		}
	}

	return true, nil
}

// On appends a registration. It takes effect for all subsequent transitions
// and never fires retroactively for the current state. A nil trigger fires
// the event on every change. The registration list is append-only for the
// component's lifetime.
func (c *Component) On(trigger Trigger, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append(c.registrations, registration{
		trigger: trigger,
		event:   func(State) { event() },
	})
}

// OnState appends a trigger-less registration whose callback receives the
// newly committed state. Derived components (thermistor over ADC) and the
// history recorder use this form.
func (c *Component) OnState(event func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append(c.registrations, registration{event: event})
}
