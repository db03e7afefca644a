package hal

// Line identifies a GPIO line by its BCM number.
type Line int

// Level is a digital output level.
type Level bool

// Digital levels.
const (
	Low  Level = false
	High Level = true
)

// String returns "high" or "low".
func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Direction configures a line for input or output.
type Direction int

// Line directions.
const (
	Input Direction = iota
	Output
)

// DigitalIO is the digital input/output capability. Every concrete device
// pushes its committed state out through this interface.
type DigitalIO interface {
	// Configure sets the direction of a line. It must be called before the
	// first write or read on that line.
	Configure(line Line, dir Direction) error

	// WriteLevel drives an output line to the given level.
	WriteLevel(line Line, level Level) error

	// ReadLevel samples an input line.
	ReadLevel(line Line) (Level, error)
}

// PWM is the pulse-width-modulation capability used by multicolour LEDs and
// DC motors. Duty cycles are percentages in [0, 100].
type PWM interface {
	// Start begins PWM output on a line at the given frequency and initial
	// duty cycle.
	Start(line Line, freqHz int, duty float64) error

	// SetDuty changes the duty cycle of a running channel.
	SetDuty(line Line, duty float64) error

	// Stop ends PWM output on a line.
	Stop(line Line) error
}

// ShiftRegister is the secondary output protocol used by the seven-segment
// and four-digit display drivers. The component knows the register's bit
// width; Write pushes one whole pattern.
type ShiftRegister interface {
	Write(pattern uint32) error
}

// ADC exposes per-channel digital readings from an external
// analog-to-digital device.
type ADC interface {
	// Read returns the digital reading on the given channel.
	Read(channel int) (int, error)
}
