// Package rpihal drives a Raspberry Pi GPIO header through the /dev/gpiomem
// interface of github.com/stianeikeland/go-rpio. It implements the hal
// DigitalIO and PWM capabilities.
//
// Open must be called once before any pin operation and Close once after the
// last; both map directly onto go-rpio's memory-range lifecycle.
package rpihal

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// pwmCycleLength is the denominator for duty-cycle fractions. go-rpio wants
// duty as dutyLen out of cycleLen; 100 steps matches the percentage API.
const pwmCycleLength = 100

// Backend implements hal.DigitalIO and hal.PWM on Raspberry Pi hardware.
// A single Backend may be shared by every device in the process.
type Backend struct {
	mu   sync.Mutex
	open bool
}

// Open memory-maps the GPIO range and returns a ready backend.
func Open() (*Backend, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("opening gpio memory range: %w", err)
	}
	return &Backend{open: true}, nil
}

// Close unmaps the GPIO range. The backend is unusable afterwards.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return nil
	}
	b.open = false
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("closing gpio memory range: %w", err)
	}
	return nil
}

// Configure sets a line's direction.
func (b *Backend) Configure(line hal.Line, dir hal.Direction) error {
	pin, err := b.pin(line)
	if err != nil {
		return err
	}
	if dir == hal.Output {
		pin.Output()
	} else {
		pin.Input()
	}
	return nil
}

// WriteLevel drives a line high or low.
func (b *Backend) WriteLevel(line hal.Line, level hal.Level) error {
	pin, err := b.pin(line)
	if err != nil {
		return err
	}
	if level == hal.High {
		pin.High()
	} else {
		pin.Low()
	}
	return nil
}

// ReadLevel samples a line.
func (b *Backend) ReadLevel(line hal.Line) (hal.Level, error) {
	pin, err := b.pin(line)
	if err != nil {
		return hal.Low, err
	}
	return hal.Level(pin.Read() == rpio.High), nil
}

// Start switches a line to hardware PWM at the given frequency and duty
// percentage. Only the Pi's PWM-capable lines accept this; go-rpio silently
// ignores others, so stick to the documented channels.
func (b *Backend) Start(line hal.Line, freqHz int, duty float64) error {
	pin, err := b.pin(line)
	if err != nil {
		return err
	}
	if err := checkDuty(duty); err != nil {
		return err
	}
	pin.Mode(rpio.Pwm)
	pin.Freq(freqHz * pwmCycleLength)
	pin.DutyCycle(uint32(duty), pwmCycleLength)
	return nil
}

// SetDuty changes the duty percentage of a running channel.
func (b *Backend) SetDuty(line hal.Line, duty float64) error {
	pin, err := b.pin(line)
	if err != nil {
		return err
	}
	if err := checkDuty(duty); err != nil {
		return err
	}
	pin.DutyCycle(uint32(duty), pwmCycleLength)
	return nil
}

// Stop ends PWM on a line and parks it as a low output.
func (b *Backend) Stop(line hal.Line) error {
	pin, err := b.pin(line)
	if err != nil {
		return err
	}
	pin.DutyCycle(0, pwmCycleLength)
	pin.Output()
	pin.Low()
	return nil
}

func (b *Backend) pin(line hal.Line) (rpio.Pin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return 0, fmt.Errorf("rpihal: backend is closed")
	}
	if line < 0 || line > 53 {
		return 0, fmt.Errorf("rpihal: bcm line %d out of range", line)
	}
	return rpio.Pin(line), nil
}

func checkDuty(duty float64) error {
	if duty < 0 || duty > 100 {
		return fmt.Errorf("rpihal: duty cycle %.1f out of range [0,100]", duty)
	}
	return nil
}
