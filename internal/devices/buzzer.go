package devices

import (
	"fmt"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// BuzzerState is the state of an active buzzer.
type BuzzerState struct {
	Buzzing bool
}

// Equals reports whether other is a BuzzerState with the same flag.
func (s BuzzerState) Equals(other component.State) (bool, error) {
	o, ok := other.(BuzzerState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.BuzzerState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// ActiveBuzzer is a buzzer with a built-in oscillator on a single digital
// output line: high buzzes, low is silent.
type ActiveBuzzer struct {
	*component.Component

	io   hal.DigitalIO
	line hal.Line
}

// NewActiveBuzzer configures the output line and returns a silent buzzer.
func NewActiveBuzzer(io hal.DigitalIO, line hal.Line) (*ActiveBuzzer, error) {
	if err := io.Configure(line, hal.Output); err != nil {
		return nil, fmt.Errorf("configuring buzzer line %d: %w", line, err)
	}
	if err := io.WriteLevel(line, hal.Low); err != nil {
		return nil, fmt.Errorf("initialising buzzer line %d: %w", line, err)
	}
	return &ActiveBuzzer{
		Component: component.New(BuzzerState{Buzzing: false}),
		io:        io,
		line:      line,
	}, nil
}

// SetState commits the state and drives the line.
func (b *ActiveBuzzer) SetState(next BuzzerState) error {
	if _, err := b.Component.SetState(next); err != nil {
		return err
	}
	return b.io.WriteLevel(b.line, hal.Level(next.Buzzing))
}

// Buzz starts the buzzer.
func (b *ActiveBuzzer) Buzz() error {
	return b.SetState(BuzzerState{Buzzing: true})
}

// Silence stops the buzzer.
func (b *ActiveBuzzer) Silence() error {
	return b.SetState(BuzzerState{Buzzing: false})
}
