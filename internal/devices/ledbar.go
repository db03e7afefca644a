package devices

import (
	"fmt"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// LEDBarState is the state of a bar-graph LED module: the number of segments
// illuminated from the bottom, zero meaning all dark.
type LEDBarState struct {
	Illuminated int
}

// Equals reports whether other is an LEDBarState with the same count.
func (s LEDBarState) Equals(other component.State) (bool, error) {
	o, ok := other.(LEDBarState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.LEDBarState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// LEDBar is a bar-graph LED module with one digital output line per segment.
type LEDBar struct {
	*component.Component

	io    hal.DigitalIO
	lines []hal.Line
}

// NewLEDBar configures one output line per segment and returns a dark bar.
func NewLEDBar(io hal.DigitalIO, lines []hal.Line) (*LEDBar, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: led bar needs at least one line", component.ErrInvalidValue)
	}
	for _, line := range lines {
		if err := io.Configure(line, hal.Output); err != nil {
			return nil, fmt.Errorf("configuring led bar line %d: %w", line, err)
		}
		if err := io.WriteLevel(line, hal.Low); err != nil {
			return nil, fmt.Errorf("initialising led bar line %d: %w", line, err)
		}
	}
	bar := &LEDBar{
		Component: component.New(LEDBarState{Illuminated: 0}),
		io:        io,
	}
	bar.lines = append(bar.lines, lines...)
	return bar, nil
}

// Segments returns the number of segments in the bar.
func (b *LEDBar) Segments() int {
	return len(b.lines)
}

// SetState commits the state and drives the segment lines: the bottom
// Illuminated segments high, the rest low. The count must be within
// [0, Segments()].
func (b *LEDBar) SetState(next LEDBarState) error {
	if next.Illuminated < 0 || next.Illuminated > len(b.lines) {
		return fmt.Errorf("%w: %d segments, bar has %d", component.ErrInvalidValue, next.Illuminated, len(b.lines))
	}
	if _, err := b.Component.SetState(next); err != nil {
		return err
	}
	for i, line := range b.lines {
		if err := b.io.WriteLevel(line, hal.Level(i < next.Illuminated)); err != nil {
			return fmt.Errorf("writing led bar segment %d: %w", i, err)
		}
	}
	return nil
}

// Illuminate lights the bottom n segments.
func (b *LEDBar) Illuminate(n int) error {
	return b.SetState(LEDBarState{Illuminated: n})
}
