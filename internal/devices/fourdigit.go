package devices

import (
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

// DigitCount is the number of multiplexed positions on the display.
const DigitCount = 4

// defaultHold is the per-digit display duration when none is configured.
// Four digits at 2ms each refresh the full display at 125Hz, well above the
// persistence-of-vision threshold.
const defaultHold = 2 * time.Millisecond

// FourDigitState is the aggregate state of a four-digit display: one glyph
// per position, index 0 leftmost.
type FourDigitState struct {
	Digits [DigitCount]Glyph
}

// NewFourDigitState validates every glyph and returns the aggregate.
func NewFourDigitState(digits [DigitCount]Glyph) (FourDigitState, error) {
	for i, g := range digits {
		valid, err := NewGlyph(g.Char, g.Decimal)
		if err != nil {
			return FourDigitState{}, fmt.Errorf("digit %d: %w", i, err)
		}
		digits[i] = valid
	}
	return FourDigitState{Digits: digits}, nil
}

// ParseGlyphs builds an aggregate from a display string. A '.' attaches to
// the preceding character, so "12.34" fills four positions. Short strings
// are left padded with blanks.
func ParseGlyphs(text string) (FourDigitState, error) {
	var glyphs []Glyph
	for i := 0; i < len(text); i++ {
		if text[i] == '.' {
			if len(glyphs) == 0 || glyphs[len(glyphs)-1].Decimal {
				return FourDigitState{}, fmt.Errorf("%w: misplaced decimal point in %q", component.ErrInvalidValue, text)
			}
			glyphs[len(glyphs)-1].Decimal = true
			continue
		}
		g, err := NewGlyph(text[i], false)
		if err != nil {
			return FourDigitState{}, err
		}
		glyphs = append(glyphs, g)
	}
	if len(glyphs) > DigitCount {
		return FourDigitState{}, fmt.Errorf("%w: %q needs %d positions, display has %d", component.ErrInvalidValue, text, len(glyphs), DigitCount)
	}

	var digits [DigitCount]Glyph
	pad := DigitCount - len(glyphs)
	for i := range digits {
		if i < pad {
			digits[i] = Glyph{Char: ' '}
		} else {
			digits[i] = glyphs[i-pad]
		}
	}
	return FourDigitState{Digits: digits}, nil
}

// Equals reports whether other is a FourDigitState with the same glyphs.
func (s FourDigitState) Equals(other component.State) (bool, error) {
	o, ok := other.(FourDigitState)
	if !ok {
		return false, fmt.Errorf("%w: expected devices.FourDigitState, got %T", component.ErrStateMismatch, other)
	}
	return s == o, nil
}

// FourDigitDisplay drives a four-digit seven-segment module by time-slicing:
// a background refresh goroutine activates one digit at a time and renders
// that digit's glyph through the shift register, fast enough that all four
// appear lit simultaneously.
//
// Each committed aggregate gets its own refresh goroutine working on an
// immutable snapshot. SetState stops the previous goroutine (close + join)
// before starting the next, under a lifecycle mutex, so there is never more
// than one goroutine driving the hardware and no flag is shared between the
// loop and its owner.
type FourDigitDisplay struct {
	*component.Component

	io       hal.DigitalIO
	register hal.ShiftRegister
	digits   [DigitCount]hal.Line
	hold     time.Duration
	logger   Logger

	lifecycleMu sync.Mutex
	stop        chan struct{}
	done        chan struct{}
}

// NewFourDigitDisplay configures the digit-select lines and returns a blank,
// unlit display. hold is the per-digit display duration; zero selects the
// default.
func NewFourDigitDisplay(io hal.DigitalIO, register hal.ShiftRegister, digits [DigitCount]hal.Line, hold time.Duration) (*FourDigitDisplay, error) {
	if hold <= 0 {
		hold = defaultHold
	}
	for _, line := range digits {
		if err := io.Configure(line, hal.Output); err != nil {
			return nil, fmt.Errorf("configuring digit line %d: %w", line, err)
		}
		if err := io.WriteLevel(line, hal.Low); err != nil {
			return nil, fmt.Errorf("initialising digit line %d: %w", line, err)
		}
	}

	blank, err := NewFourDigitState([DigitCount]Glyph{{Char: ' '}, {Char: ' '}, {Char: ' '}, {Char: ' '}})
	if err != nil {
		return nil, err
	}
	return &FourDigitDisplay{
		Component: component.New(blank),
		io:        io,
		register:  register,
		digits:    digits,
		hold:      hold,
		logger:    noopLogger{},
	}, nil
}

// SetDisplayLogger sets the logger used by the refresh goroutine.
func (d *FourDigitDisplay) SetDisplayLogger(logger Logger) {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()
	d.logger = logger
}

// SetState commits the aggregate through the base contract, then replaces the
// refresh goroutine with one driving the new snapshot. An equal aggregate is
// a no-op and leaves the running goroutine untouched.
func (d *FourDigitDisplay) SetState(next FourDigitState) error {
	valid, err := NewFourDigitState(next.Digits)
	if err != nil {
		return err
	}
	changed, err := d.Component.SetState(valid)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	d.restart(valid)
	return nil
}

// Display shows a string such as "12.34". See ParseGlyphs for the format.
func (d *FourDigitDisplay) Display(text string) error {
	next, err := ParseGlyphs(text)
	if err != nil {
		return err
	}
	return d.SetState(next)
}

// Close stops the refresh goroutine and darkens the display. The display
// state is unchanged; a further SetState with a new aggregate restarts
// refreshing.
func (d *FourDigitDisplay) Close() {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()
	d.stopLoopLocked()
	if err := d.deactivateAll(); err != nil {
		d.logger.Error("darkening display", "error", err)
	}
}

// restart swaps in a refresh goroutine for the given snapshot.
func (d *FourDigitDisplay) restart(snapshot FourDigitState) {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	d.stopLoopLocked()

	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.refresh(snapshot, d.stop, d.done)
}

// stopLoopLocked signals the current refresh goroutine and waits for it to
// exit. Callers hold lifecycleMu.
func (d *FourDigitDisplay) stopLoopLocked() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	<-d.done
	d.stop = nil
	d.done = nil
}

// refresh is the multiplexing loop. It cycles the cursor across positions,
// each slice activating one digit exclusively and rendering its glyph, and
// checks the stop signal once per full pass rather than mid-render.
func (d *FourDigitDisplay) refresh(snapshot FourDigitState, stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		for i, glyph := range snapshot.Digits {
			if err := d.activate(i); err != nil {
				d.logger.Error("activating digit", "position", i, "error", err)
				continue
			}
			if err := d.register.Write(uint32(glyph.Pattern())); err != nil {
				d.logger.Error("rendering glyph", "position", i, "error", err)
			}
			time.Sleep(d.hold)
		}
	}
}

// activate drives position i's select line high and every other low.
func (d *FourDigitDisplay) activate(position int) error {
	for i, line := range d.digits {
		if err := d.io.WriteLevel(line, hal.Level(i == position)); err != nil {
			return fmt.Errorf("writing digit select %d: %w", i, err)
		}
	}
	return nil
}

// deactivateAll drives every select line low.
func (d *FourDigitDisplay) deactivateAll() error {
	for i, line := range d.digits {
		if err := d.io.WriteLevel(line, hal.Low); err != nil {
			return fmt.Errorf("writing digit select %d: %w", i, err)
		}
	}
	return nil
}
