// Package hal defines the physical-interface capabilities the component layer
// drives, and ships an in-memory implementation for running off-hardware.
//
// The component and device layers never talk to pins directly; they consume
// these four capabilities:
//
//   - DigitalIO: pin configuration and digital level output/input
//   - PWM: pulse-width-modulated output channels
//   - ShiftRegister: a secondary output protocol taking whole bit patterns
//   - ADC: per-channel analog-to-digital readings
//
// Two implementations exist: Memory (this package), which records every call
// for tests and demo runs, and rpihal (subpackage), which drives a Raspberry
// Pi header through github.com/stianeikeland/go-rpio.
//
// # Shared-resource policy
//
// Pins and PWM channels are process-wide shared state. The layer assumes at
// most one component owns any given line for writing; it performs no
// cross-component conflict detection.
package hal
