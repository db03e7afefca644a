// Package devices implements the concrete device kinds of Pin Logic on top of
// the component state/event contract.
//
// Every device embeds a component and follows the same shape: a typed State
// value per kind, a typed SetState that commits through the base contract and
// then pushes the post-commit state to the physical-interface capability, and
// semantic sugar (TurnOn, Buzz, Display, SetSpeed) that constructs a state and
// routes it through SetState.
//
// # Device kinds
//
//   - LED, LEDBar: digital output levels
//   - RGBLED, DCMotor: PWM duty cycles
//   - ActiveBuzzer, Button: digital output and debounced digital input
//   - SevenSegment: one glyph through the shift-register protocol
//   - FourDigitDisplay: four multiplexed glyphs driven by a background
//     refresh goroutine (the persistence-of-vision driver)
//   - ADC, Thermistor: analog sampling and a derived temperature component
//
// # Concurrency
//
// Only FourDigitDisplay owns a background goroutine; every other device is
// driven synchronously on the caller's goroutine. The refresh goroutine works
// on an immutable snapshot of the committed aggregate and is replaced, never
// mutated, when the state changes.
package devices
