package devices

import (
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/hal"
)

func TestParseGlyphs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    [DigitCount]Glyph
		wantErr bool
	}{
		{
			name: "four digits",
			text: "1234",
			want: [DigitCount]Glyph{{Char: '1'}, {Char: '2'}, {Char: '3'}, {Char: '4'}},
		},
		{
			name: "decimal point attaches to the preceding digit",
			text: "12.34",
			want: [DigitCount]Glyph{{Char: '1'}, {Char: '2', Decimal: true}, {Char: '3'}, {Char: '4'}},
		},
		{
			name: "short string pads left with blanks",
			text: "5",
			want: [DigitCount]Glyph{{Char: ' '}, {Char: ' '}, {Char: ' '}, {Char: '5'}},
		},
		{
			name: "lowercase hex folds",
			text: "beef",
			want: [DigitCount]Glyph{{Char: 'B'}, {Char: 'E'}, {Char: 'E'}, {Char: 'F'}},
		},
		{name: "leading decimal point", text: ".1", wantErr: true},
		{name: "doubled decimal point", text: "1..2", wantErr: true},
		{name: "too many positions", text: "12345", wantErr: true},
		{name: "undisplayable character", text: "1z3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGlyphs(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseGlyphs(%q) error = nil, want error", tt.text)
				}
				if !errors.Is(err, component.ErrInvalidValue) {
					t.Errorf("ParseGlyphs(%q) error = %v, want ErrInvalidValue", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGlyphs(%q) error = %v", tt.text, err)
			}
			if got.Digits != tt.want {
				t.Errorf("ParseGlyphs(%q) = %+v, want %+v", tt.text, got.Digits, tt.want)
			}
		})
	}
}

func newTestDisplay(t *testing.T) (*FourDigitDisplay, *hal.Memory, [DigitCount]hal.Line) {
	t.Helper()
	// Memory doubles as the shift register so the test sees whole patterns
	// rather than individual shifted bits.
	mem := hal.NewMemory()
	digits := [DigitCount]hal.Line{10, 22, 27, 17}
	display, err := NewFourDigitDisplay(mem, mem, digits, time.Millisecond)
	if err != nil {
		t.Fatalf("NewFourDigitDisplay() error = %v", err)
	}
	return display, mem, digits
}

func TestFourDigitDisplay_Multiplexing(t *testing.T) {
	display, mem, digits := newTestDisplay(t)

	if err := display.Display("12.34"); err != nil {
		t.Fatalf("Display() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	display.Close()

	// The refresh loop renders one glyph per slice; the register writes must
	// cycle the four patterns in display order.
	wantPatterns := []uint32{
		uint32(Glyph{Char: '1'}.Pattern()),
		uint32(Glyph{Char: '2', Decimal: true}.Pattern()),
		uint32(Glyph{Char: '3'}.Pattern()),
		uint32(Glyph{Char: '4'}.Pattern()),
	}
	writes := mem.RegisterWrites()
	if len(writes) < len(wantPatterns) {
		t.Fatalf("recorded %d register writes, want at least %d", len(writes), len(wantPatterns))
	}
	for i, got := range writes[:len(wantPatterns)] {
		if got != wantPatterns[i] {
			t.Errorf("register write %d = %#02x, want %#02x", i, got, wantPatterns[i])
		}
	}

	// Each activation drives all four select lines, exactly one of them high.
	digitLine := make(map[hal.Line]bool, len(digits))
	for _, line := range digits {
		digitLine[line] = true
	}
	var selects []hal.LevelWrite
	for _, w := range mem.LevelWrites() {
		if digitLine[w.Line] {
			selects = append(selects, w)
		}
	}
	// Skip the construction writes that pull every line low.
	selects = selects[DigitCount:]
	if len(selects) < DigitCount*DigitCount {
		t.Fatalf("recorded %d select writes, want at least one full pass", len(selects))
	}
	for pass := 0; pass+DigitCount <= len(selects)-DigitCount; pass += DigitCount {
		high := 0
		for _, w := range selects[pass : pass+DigitCount] {
			if w.Level == hal.High {
				high++
			}
		}
		if high != 1 {
			t.Fatalf("activation at write %d drove %d lines high, want exactly 1", pass, high)
		}
	}

	// Close darkens the display: the final writes pull every select line low.
	final := selects[len(selects)-DigitCount:]
	for _, w := range final {
		if w.Level != hal.Low {
			t.Errorf("line %d left %v after Close, want Low", w.Line, w.Level)
		}
	}
}

func TestFourDigitDisplay_SetState(t *testing.T) {
	display, _, _ := newTestDisplay(t)
	defer display.Close()

	t.Run("rejects invalid glyphs", func(t *testing.T) {
		bad := FourDigitState{Digits: [DigitCount]Glyph{{Char: 'z'}, {Char: ' '}, {Char: ' '}, {Char: ' '}}}
		if err := display.SetState(bad); !errors.Is(err, component.ErrInvalidValue) {
			t.Errorf("SetState() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("commits the aggregate", func(t *testing.T) {
		if err := display.Display("  42"); err != nil {
			t.Fatalf("Display() error = %v", err)
		}
		got := display.State().(FourDigitState)
		want, err := ParseGlyphs("42")
		if err != nil {
			t.Fatalf("ParseGlyphs() error = %v", err)
		}
		if got != want {
			t.Errorf("State() = %+v, want %+v", got, want)
		}
	})

	t.Run("equal aggregate fires no event", func(t *testing.T) {
		fired := 0
		display.On(nil, func() { fired++ })

		if err := display.Display("  42"); err != nil {
			t.Fatalf("Display() error = %v", err)
		}
		if fired != 0 {
			t.Errorf("event fired %d times on no-op commit, want 0", fired)
		}
	})
}
