package devices

import (
	"fmt"
	"math"

	"github.com/nerrad567/pin-logic-core/internal/component"
)

// Thermistor divider constants: a 10kΩ NTC thermistor with B = 3950, in
// series with a 10kΩ resistor, referenced to 25°C.
const (
	thermistorNominalOhms = 10.0
	thermistorBeta        = 3950.0
	nominalKelvin         = 273.15 + 25
	zeroCelsiusKelvin     = 273.15
)

// ThermistorState is the state of a thermistor: the last derived temperature.
// Known is false until the first ADC transition has been observed.
type ThermistorState struct {
	TemperatureF float64
	Known        bool
}

// Equals reports whether other is a ThermistorState with the same reading.
func (s ThermistorState) Equals(other component.State) (bool, error) {
	o, ok := other.(ThermistorState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.ThermistorState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// Thermistor derives a temperature from one ADC channel. It registers a
// trigger-less event against the converter and recomputes its own state on
// every converter transition, so it is a purely derived component with no
// sampling loop of its own.
type Thermistor struct {
	*component.Component

	adc     *ADCDevice
	channel int
}

// NewThermistor wires a thermistor to an ADC channel. The returned component
// starts with an unknown temperature and tracks the converter from then on.
func NewThermistor(adc *ADCDevice, channel int) (*Thermistor, error) {
	if channel < 0 || channel >= ADCChannels {
		return nil, fmt.Errorf("%w: adc channel %d out of range", component.ErrInvalidValue, channel)
	}

	t := &Thermistor{
		Component: component.New(ThermistorState{}),
		adc:       adc,
		channel:   channel,
	}

	adc.OnState(func(s component.State) {
		reading := s.(ADCState).Channels[t.channel]
		temperature := ConvertVoltageToTemperature(adc.InputVoltage(), adc.Voltage(reading))
		// The converter fired from its own commit path; committing the
		// derived state here keeps the two transitions ordered.
		_, _ = t.Component.SetState(ThermistorState{TemperatureF: temperature, Known: true})
	})

	return t, nil
}

// UpdateState asks the converter for a fresh sample; the registered event
// recomputes the temperature if anything changed.
func (t *Thermistor) UpdateState() error {
	return t.adc.UpdateState()
}

// TemperatureF samples the converter and returns the current temperature in
// Fahrenheit.
func (t *Thermistor) TemperatureF() (float64, error) {
	if err := t.adc.UpdateState(); err != nil {
		return 0, err
	}
	state := t.Component.State().(ThermistorState)
	if !state.Known {
		return 0, ErrNoReading
	}
	return state.TemperatureF, nil
}

// ConvertVoltageToTemperature turns the divider's output voltage into a
// temperature in Fahrenheit using the B-parameter equation.
func ConvertVoltageToTemperature(inputVoltage, outputVoltage float64) float64 {
	rt := thermistorNominalOhms * outputVoltage / (inputVoltage - outputVoltage)
	kelvin := 1 / (1/nominalKelvin + math.Log(rt/thermistorNominalOhms)/thermistorBeta)
	celsius := kelvin - zeroCelsiusKelvin
	return celsius*9.0/5.0 + 32.0
}
