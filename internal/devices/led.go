package devices

import (
	"fmt"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// LEDState is the state of a single LED.
type LEDState struct {
	On bool
}

// Equals reports whether other is an LEDState with the same on flag.
func (s LEDState) Equals(other component.State) (bool, error) {
	o, ok := other.(LEDState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.LEDState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// LED is a light-emitting diode on a single digital output line.
type LED struct {
	*component.Component

	io   hal.DigitalIO
	line hal.Line
}

// NewLED configures the output line and returns an LED in the off state with
// the line driven low.
func NewLED(io hal.DigitalIO, line hal.Line) (*LED, error) {
	if err := io.Configure(line, hal.Output); err != nil {
		return nil, fmt.Errorf("configuring led line %d: %w", line, err)
	}
	if err := io.WriteLevel(line, hal.Low); err != nil {
		return nil, fmt.Errorf("initialising led line %d: %w", line, err)
	}
	return &LED{
		Component: component.New(LEDState{On: false}),
		io:        io,
		line:      line,
	}, nil
}

// SetState commits the state through the base contract and then pushes the
// post-commit level out to the line.
func (l *LED) SetState(next LEDState) error {
	if _, err := l.Component.SetState(next); err != nil {
		return err
	}
	return l.io.WriteLevel(l.line, hal.Level(next.On))
}

// TurnOn lights the LED.
func (l *LED) TurnOn() error {
	return l.SetState(LEDState{On: true})
}

// TurnOff darkens the LED.
func (l *LED) TurnOff() error {
	return l.SetState(LEDState{On: false})
}

// IsOn reports whether the LED is currently lit.
func (l *LED) IsOn() bool {
	return l.Component.State().(LEDState).On
}
