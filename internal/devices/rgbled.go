package devices

import (
	"fmt"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// rgbFrequencyHz is the PWM frequency for RGB LED channels. Fast enough that
// no flicker is visible at any duty cycle.
const rgbFrequencyHz = 2000

// RGBLEDState is the state of a multicolour LED: one duty-cycle percentage
// per channel, each in [0, 100].
type RGBLEDState struct {
	Red   float64
	Green float64
	Blue  float64
}

// NewRGBLEDState validates the channel values and returns the state.
func NewRGBLEDState(red, green, blue float64) (RGBLEDState, error) {
	for _, v := range []float64{red, green, blue} {
		if v < 0 || v > 100 {
			return RGBLEDState{}, fmt.Errorf("%w: duty cycle %.1f out of range [0,100]", component.ErrInvalidValue, v)
		}
	}
	return RGBLEDState{Red: red, Green: green, Blue: blue}, nil
}

// Equals reports whether other is an RGBLEDState with the same channels.
func (s RGBLEDState) Equals(other component.State) (bool, error) {
	o, ok := other.(RGBLEDState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.RGBLEDState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// RGBLED is a three-channel LED on three PWM lines.
type RGBLED struct {
	*component.Component

	pwm   hal.PWM
	red   hal.Line
	green hal.Line
	blue  hal.Line
}

// NewRGBLED starts all three PWM channels at zero duty and returns a dark LED.
func NewRGBLED(pwm hal.PWM, red, green, blue hal.Line) (*RGBLED, error) {
	for _, line := range []hal.Line{red, green, blue} {
		if err := pwm.Start(line, rgbFrequencyHz, 0); err != nil {
			return nil, fmt.Errorf("starting pwm on line %d: %w", line, err)
		}
	}
	return &RGBLED{
		Component: component.New(RGBLEDState{}),
		pwm:       pwm,
		red:       red,
		green:     green,
		blue:      blue,
	}, nil
}

// SetState commits the state and pushes the three duty cycles out.
func (l *RGBLED) SetState(next RGBLEDState) error {
	if _, err := NewRGBLEDState(next.Red, next.Green, next.Blue); err != nil {
		return err
	}
	if _, err := l.Component.SetState(next); err != nil {
		return err
	}
	channels := []struct {
		line hal.Line
		duty float64
	}{
		{l.red, next.Red},
		{l.green, next.Green},
		{l.blue, next.Blue},
	}
	for _, ch := range channels {
		if err := l.pwm.SetDuty(ch.line, ch.duty); err != nil {
			return fmt.Errorf("setting duty on line %d: %w", ch.line, err)
		}
	}
	return nil
}

// SetColor sets all three channels at once.
func (l *RGBLED) SetColor(red, green, blue float64) error {
	next, err := NewRGBLEDState(red, green, blue)
	if err != nil {
		return err
	}
	return l.SetState(next)
}

// Off darkens all three channels.
func (l *RGBLED) Off() error {
	return l.SetState(RGBLEDState{})
}

// Close stops the PWM channels. The LED is unusable afterwards.
func (l *RGBLED) Close() error {
	for _, line := range []hal.Line{l.red, l.green, l.blue} {
		if err := l.pwm.Stop(line); err != nil {
			return fmt.Errorf("stopping pwm on line %d: %w", line, err)
		}
	}
	return nil
}
