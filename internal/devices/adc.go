package devices

import (
	"fmt"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// ADCChannels is the channel count of the supported converter (ADS7830
// class: 8 channels, 8-bit readings).
const ADCChannels = 8

// adcMaxReading is the full-scale digital reading of an 8-bit converter.
const adcMaxReading = 255

// ADCState is the state of the analog-to-digital converter: the most recent
// digital reading per channel.
type ADCState struct {
	Channels [ADCChannels]int
}

// Equals reports whether other is an ADCState with the same readings.
func (s ADCState) Equals(other component.State) (bool, error) {
	o, ok := other.(ADCState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.ADCState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// ADCDevice models the external analog-to-digital converter as a component:
// sampling commits a fresh per-channel snapshot, and derived components
// (Thermistor) register trigger-less events against it.
type ADCDevice struct {
	*component.Component

	conv         hal.ADC
	inputVoltage float64
}

// NewADCDevice wraps a converter. inputVoltage is the reference the
// converter measures against, used to turn readings back into volts.
func NewADCDevice(conv hal.ADC, inputVoltage float64) (*ADCDevice, error) {
	if inputVoltage <= 0 {
		return nil, fmt.Errorf("%w: input voltage %.2f must be positive", component.ErrInvalidValue, inputVoltage)
	}
	return &ADCDevice{
		Component:    component.New(ADCState{}),
		conv:         conv,
		inputVoltage: inputVoltage,
	}, nil
}

// InputVoltage returns the converter's reference voltage.
func (a *ADCDevice) InputVoltage() float64 {
	return a.inputVoltage
}

// UpdateState samples every channel and commits the snapshot. Observers fire
// only when at least one channel changed.
func (a *ADCDevice) UpdateState() error {
	var next ADCState
	for ch := range next.Channels {
		value, err := a.conv.Read(ch)
		if err != nil {
			return fmt.Errorf("reading adc channel %d: %w", ch, err)
		}
		next.Channels[ch] = value
	}
	_, err := a.Component.SetState(next)
	return err
}

// Voltage converts a digital reading into volts against the reference.
func (a *ADCDevice) Voltage(reading int) float64 {
	return float64(reading) / adcMaxReading * a.inputVoltage
}
