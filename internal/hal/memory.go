package hal

import (
	"fmt"
	"sync"
)

// Memory implements every capability in this package against process memory.
// It records configures, level writes and register writes so tests (and the
// demo daemon running off-hardware) can inspect exactly what a device pushed
// to its pins.
//
// All methods are safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	directions map[Line]Direction
	levels     map[Line]Level
	duties     map[Line]float64
	pwmRunning map[Line]bool
	channels   map[int]int

	registerWrites []uint32
	levelWrites    []LevelWrite
}

// LevelWrite is one recorded WriteLevel call.
type LevelWrite struct {
	Line  Line
	Level Level
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		directions: make(map[Line]Direction),
		levels:     make(map[Line]Level),
		duties:     make(map[Line]float64),
		pwmRunning: make(map[Line]bool),
		channels:   make(map[int]int),
	}
}

// Configure records the direction of a line.
func (m *Memory) Configure(line Line, dir Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directions[line] = dir
	return nil
}

// WriteLevel records a level write. Writing a line that was not configured
// for output is an error, mirroring how real hardware backends behave.
func (m *Memory) WriteLevel(line Line, level Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir, ok := m.directions[line]
	if !ok || dir != Output {
		return fmt.Errorf("hal: line %d not configured for output", line)
	}
	m.levels[line] = level
	m.levelWrites = append(m.levelWrites, LevelWrite{Line: line, Level: level})
	return nil
}

// ReadLevel returns the level most recently set on a line, or the level
// injected with SetLevel for input lines. Unknown lines read low.
func (m *Memory) ReadLevel(line Line) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[line], nil
}

// SetLevel injects an input level, simulating an external signal such as a
// button press.
func (m *Memory) SetLevel(line Line, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[line] = level
}

// Level returns the current level of a line.
func (m *Memory) Level(line Line) Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[line]
}

// LevelWrites returns a copy of every WriteLevel call recorded so far, in
// call order.
func (m *Memory) LevelWrites() []LevelWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	writes := make([]LevelWrite, len(m.levelWrites))
	copy(writes, m.levelWrites)
	return writes
}

// Start begins a simulated PWM channel.
func (m *Memory) Start(line Line, _ int, duty float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pwmRunning[line] = true
	m.duties[line] = duty
	return nil
}

// SetDuty records a duty-cycle change.
func (m *Memory) SetDuty(line Line, duty float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duties[line] = duty
	return nil
}

// Stop ends a simulated PWM channel.
func (m *Memory) Stop(line Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pwmRunning[line] = false
	return nil
}

// Duty returns the last duty cycle set on a line.
func (m *Memory) Duty(line Line) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duties[line]
}

// PWMRunning reports whether a simulated PWM channel is active.
func (m *Memory) PWMRunning(line Line) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pwmRunning[line]
}

// Write records a shift-register pattern.
func (m *Memory) Write(pattern uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerWrites = append(m.registerWrites, pattern)
	return nil
}

// RegisterWrites returns a copy of every shift-register write recorded so
// far, in call order.
func (m *Memory) RegisterWrites() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	writes := make([]uint32, len(m.registerWrites))
	copy(writes, m.registerWrites)
	return writes
}

// SetChannel injects an ADC reading, simulating an analog signal.
func (m *Memory) SetChannel(channel, value int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[channel] = value
}

// Read returns the injected reading for a channel. Unknown channels read 0.
func (m *Memory) Read(channel int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[channel], nil
}
