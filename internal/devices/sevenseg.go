package devices

import (
	"fmt"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// decimalPointBit is the DP segment in an encoded glyph pattern.
const decimalPointBit = 0x80

// segmentPatterns maps displayable characters to segment patterns in gfedcba
// order, bit 0 = segment a. A set bit means a lit segment; hardware with
// common-anode wiring inverts the pattern at the register.
var segmentPatterns = map[byte]byte{
	'0': 0x3F, '1': 0x06, '2': 0x5B, '3': 0x4F, '4': 0x66,
	'5': 0x6D, '6': 0x7D, '7': 0x07, '8': 0x7F, '9': 0x6F,
	'A': 0x77, 'B': 0x7C, 'C': 0x39, 'D': 0x5E, 'E': 0x79, 'F': 0x71,
	'-': 0x40, ' ': 0x00,
}

// Glyph is one displayable character plus its decimal-point flag.
type Glyph struct {
	Char    byte
	Decimal bool
}

// NewGlyph validates the character and returns the glyph. Lowercase hex
// letters are folded to uppercase.
func NewGlyph(char byte, decimal bool) (Glyph, error) {
	if char >= 'a' && char <= 'f' {
		char -= 'a' - 'A'
	}
	if _, ok := segmentPatterns[char]; !ok {
		return Glyph{}, fmt.Errorf("%w: character %q is not displayable", component.ErrInvalidValue, char)
	}
	return Glyph{Char: char, Decimal: decimal}, nil
}

// Pattern returns the glyph's segment pattern with the decimal point folded
// into the top bit.
func (g Glyph) Pattern() byte {
	p := segmentPatterns[g.Char]
	if g.Decimal {
		p |= decimalPointBit
	}
	return p
}

// SevenSegmentState is the state of a single seven-segment display.
type SevenSegmentState struct {
	Glyph Glyph
}

// NewSevenSegmentState validates the character and returns the state.
func NewSevenSegmentState(char byte, decimal bool) (SevenSegmentState, error) {
	g, err := NewGlyph(char, decimal)
	if err != nil {
		return SevenSegmentState{}, err
	}
	return SevenSegmentState{Glyph: g}, nil
}

// Equals reports whether other is a SevenSegmentState with the same glyph.
func (s SevenSegmentState) Equals(other component.State) (bool, error) {
	o, ok := other.(SevenSegmentState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.SevenSegmentState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// SevenSegment is a single seven-segment digit behind a shift register.
type SevenSegment struct {
	*component.Component

	register hal.ShiftRegister
}

// NewSevenSegment returns a blank display.
func NewSevenSegment(register hal.ShiftRegister) (*SevenSegment, error) {
	blank, err := NewSevenSegmentState(' ', false)
	if err != nil {
		return nil, err
	}
	if err := register.Write(uint32(blank.Glyph.Pattern())); err != nil {
		return nil, fmt.Errorf("blanking display: %w", err)
	}
	return &SevenSegment{
		Component: component.New(blank),
		register:  register,
	}, nil
}

// SetState commits the state and pushes the glyph pattern to the register.
func (d *SevenSegment) SetState(next SevenSegmentState) error {
	if _, err := NewGlyph(next.Glyph.Char, next.Glyph.Decimal); err != nil {
		return err
	}
	if _, err := d.Component.SetState(next); err != nil {
		return err
	}
	return d.register.Write(uint32(next.Glyph.Pattern()))
}

// Display shows one character.
func (d *SevenSegment) Display(char byte, decimal bool) error {
	next, err := NewSevenSegmentState(char, decimal)
	if err != nil {
		return err
	}
	return d.SetState(next)
}
