package devices

import (
	"fmt"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// motorFrequencyHz is the PWM frequency on the motor driver's enable line.
const motorFrequencyHz = 1000

// MotorState is the state of a DC motor: a signed speed in [-100, 100] where
// the sign selects the spin direction and the magnitude the PWM duty cycle.
type MotorState struct {
	Speed int
}

// NewMotorState validates the speed and returns the state.
func NewMotorState(speed int) (MotorState, error) {
	if speed < -100 || speed > 100 {
		return MotorState{}, fmt.Errorf("%w: speed %d out of range [-100,100]", component.ErrInvalidValue, speed)
	}
	return MotorState{Speed: speed}, nil
}

// Equals reports whether other is a MotorState with the same speed.
func (s MotorState) Equals(other component.State) (bool, error) {
	o, ok := other.(MotorState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.MotorState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// DCMotor is a brushed DC motor behind an H-bridge driver: two direction
// lines plus a PWM enable line.
type DCMotor struct {
	*component.Component

	io     hal.DigitalIO
	pwm    hal.PWM
	enable hal.Line
	in1    hal.Line
	in2    hal.Line
}

// NewDCMotor configures the direction lines and returns a stopped motor.
// Start must be called before the motor will turn.
func NewDCMotor(io hal.DigitalIO, pwm hal.PWM, enable, in1, in2 hal.Line) (*DCMotor, error) {
	for _, line := range []hal.Line{in1, in2} {
		if err := io.Configure(line, hal.Output); err != nil {
			return nil, fmt.Errorf("configuring motor line %d: %w", line, err)
		}
	}
	return &DCMotor{
		Component: component.New(MotorState{Speed: 0}),
		io:        io,
		pwm:       pwm,
		enable:    enable,
		in1:       in1,
		in2:       in2,
	}, nil
}

// Start begins PWM on the enable line at the current speed.
func (m *DCMotor) Start() error {
	speed := m.Component.State().(MotorState).Speed
	if err := m.pwm.Start(m.enable, motorFrequencyHz, duty(speed)); err != nil {
		return fmt.Errorf("starting motor pwm: %w", err)
	}
	return nil
}

// Stop ends PWM on the enable line; the motor coasts to a halt.
func (m *DCMotor) Stop() error {
	if err := m.pwm.Stop(m.enable); err != nil {
		return fmt.Errorf("stopping motor pwm: %w", err)
	}
	return nil
}

// SetState commits the state, sets the direction lines from the speed's sign
// and the duty cycle from its magnitude. Zero speed leaves the direction
// lines untouched and drops the duty to zero.
func (m *DCMotor) SetState(next MotorState) error {
	if _, err := NewMotorState(next.Speed); err != nil {
		return err
	}
	if _, err := m.Component.SetState(next); err != nil {
		return err
	}

	switch {
	case next.Speed < 0:
		if err := m.setDirection(hal.High, hal.Low); err != nil {
			return err
		}
	case next.Speed > 0:
		if err := m.setDirection(hal.Low, hal.High); err != nil {
			return err
		}
	}

	if err := m.pwm.SetDuty(m.enable, duty(next.Speed)); err != nil {
		return fmt.Errorf("setting motor duty: %w", err)
	}
	return nil
}

// SetSpeed is sugar over constructing a MotorState and committing it.
func (m *DCMotor) SetSpeed(speed int) error {
	next, err := NewMotorState(speed)
	if err != nil {
		return err
	}
	return m.SetState(next)
}

func (m *DCMotor) setDirection(in1, in2 hal.Level) error {
	if err := m.io.WriteLevel(m.in1, in1); err != nil {
		return fmt.Errorf("writing motor direction: %w", err)
	}
	if err := m.io.WriteLevel(m.in2, in2); err != nil {
		return fmt.Errorf("writing motor direction: %w", err)
	}
	return nil
}

func duty(speed int) float64 {
	if speed < 0 {
		speed = -speed
	}
	return float64(speed)
}
