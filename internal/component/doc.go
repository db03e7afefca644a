// Package component provides the state/event model at the heart of Pin Logic.
//
// Every physical device is represented as a Component: a holder of exactly one
// immutable State value plus an ordered list of observer registrations. All
// state transitions flow through a single commit path that detects no-op
// transitions by value equality and notifies observers synchronously when the
// state actually changes.
//
// Architecture:
//
//	┌──────────────────────────────────────────────────────┐
//	│                Component (component.go)               │
//	│                                                       │
//	│  SetState/Apply ──▶ equality check ──▶ commit         │
//	│                                          │            │
//	│                                          ▼            │
//	│                    registrations fire in order        │
//	│                    (trigger predicate gates event)    │
//	└──────────────────────────────────────────────────────┘
//	             ▲
//	             │ Apply (check-and-commit in one critical section)
//	┌─────────────────────────┐
//	│     Clock (clock.go)     │
//	│  background tick loop    │
//	└─────────────────────────┘
//
// # Key Types
//
//   - State: immutable value snapshot of a device's condition, compared only
//     by value equality within a single concrete kind
//   - Component: the mutable holder of a State and observer registrations
//   - Trigger: optional predicate deciding whether a registered event fires
//   - Clock: a Component driven by its own background goroutine
//
// # Thread Safety
//
// Component is safe for concurrent use. Commits are serialised by a single
// mutex, and observer callbacks for one transition always complete before the
// next transition commits. Callbacks run inline on whichever goroutine
// committed the transition while the commit lock is held: they must be fast,
// must not block, and must not call back into the same component.
//
// # Usage
//
//	led := component.New(LEDState{On: false})
//	led.On(nil, func() { fmt.Println("changed") })
//	changed, err := led.SetState(LEDState{On: true})
package component
