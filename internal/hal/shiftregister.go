package hal

import "fmt"

// SN74HC595 drives a 74HC595-style serial-in parallel-out shift register over
// any DigitalIO, clocking patterns out most-significant bit first and latching
// them onto the outputs in one go.
type SN74HC595 struct {
	io    DigitalIO
	data  Line
	clock Line
	latch Line
	bits  int
}

// NewSN74HC595 configures the three control lines for output and returns a
// register of the given bit width (8 for a single chip, 16 for two daisy
// chained, at most 32).
func NewSN74HC595(io DigitalIO, data, clock, latch Line, bits int) (*SN74HC595, error) {
	if bits <= 0 || bits > 32 {
		return nil, fmt.Errorf("hal: shift register width %d out of range", bits)
	}
	for _, line := range []Line{data, clock, latch} {
		if err := io.Configure(line, Output); err != nil {
			return nil, fmt.Errorf("configuring shift register line %d: %w", line, err)
		}
	}
	return &SN74HC595{io: io, data: data, clock: clock, latch: latch, bits: bits}, nil
}

// Bits returns the register's bit width.
func (r *SN74HC595) Bits() int {
	return r.bits
}

// Write shifts pattern out MSB first and pulses the latch so all outputs
// change at once.
func (r *SN74HC595) Write(pattern uint32) error {
	for i := r.bits - 1; i >= 0; i-- {
		bit := Level(pattern>>uint(i)&1 == 1)
		if err := r.io.WriteLevel(r.data, bit); err != nil {
			return fmt.Errorf("shifting bit %d: %w", i, err)
		}
		if err := r.pulse(r.clock); err != nil {
			return err
		}
	}
	return r.pulse(r.latch)
}

func (r *SN74HC595) pulse(line Line) error {
	if err := r.io.WriteLevel(line, High); err != nil {
		return fmt.Errorf("pulsing line %d: %w", line, err)
	}
	if err := r.io.WriteLevel(line, Low); err != nil {
		return fmt.Errorf("pulsing line %d: %w", line, err)
	}
	return nil
}
