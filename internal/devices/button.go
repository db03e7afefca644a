package devices

import (
	"fmt"
	"time"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// ButtonState is the state of a two-pole push button.
type ButtonState struct {
	Pressed bool
}

// Equals reports whether other is a ButtonState with the same flag.
func (s ButtonState) Equals(other component.State) (bool, error) {
	o, ok := other.(ButtonState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.ButtonState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// Button is a two-pole push button on a digital input line, wired so the
// line reads low while pressed (pull-up on the open side).
//
// The button is sampled, not interrupt driven: callers invoke Poll on a
// schedule of their choosing, typically from a clock event. A debounce
// window suppresses the contact chatter of a physical switch by ignoring a
// change that follows the previous one too closely.
type Button struct {
	*component.Component

	io         hal.DigitalIO
	line       hal.Line
	bounceTime time.Duration
	lastChange time.Time
}

// NewButton configures the input line and returns a released button.
// bounceTime is the minimum interval between accepted state changes; zero
// disables debouncing.
func NewButton(io hal.DigitalIO, line hal.Line, bounceTime time.Duration) (*Button, error) {
	if err := io.Configure(line, hal.Input); err != nil {
		return nil, fmt.Errorf("configuring button line %d: %w", line, err)
	}
	return &Button{
		Component:  component.New(ButtonState{Pressed: false}),
		io:         io,
		line:       line,
		bounceTime: bounceTime,
	}, nil
}

// Poll samples the line once and commits the observed state. A change inside
// the debounce window is discarded. Poll is meant to be driven from a single
// goroutine (a clock observer); it is not safe for concurrent use with
// itself.
func (b *Button) Poll() error {
	level, err := b.io.ReadLevel(b.line)
	if err != nil {
		return fmt.Errorf("reading button line %d: %w", b.line, err)
	}

	// Low while pressed: the button shorts the line to ground.
	next := ButtonState{Pressed: level == hal.Low}
	if next == b.Component.State().(ButtonState) {
		return nil
	}

	now := time.Now()
	if b.bounceTime > 0 && now.Sub(b.lastChange) < b.bounceTime {
		return nil
	}
	b.lastChange = now

	_, err = b.Component.SetState(next)
	return err
}

// IsPressed reports whether the button was pressed at the last poll.
func (b *Button) IsPressed() bool {
	return b.Component.State().(ButtonState).Pressed
}
