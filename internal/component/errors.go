package component

import "errors"

// Domain errors for the component package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, component.ErrStateMismatch) {
//	    // comparison received the wrong state kind
//	}
var (
	// ErrStateMismatch is returned when a state equality comparison receives
	// a value of a different concrete kind. This always signals a programming
	// error in the caller; it is never coerced to a silent "not equal".
	ErrStateMismatch = errors.New("component: state kind mismatch")

	// ErrInvalidValue is returned when a state constructor receives a value
	// outside its valid domain (an undisplayable character, an out-of-range
	// duty cycle). It fails before any commit takes place.
	ErrInvalidValue = errors.New("component: invalid state value")

	// ErrNilState is the panic value when a Component is constructed with a
	// nil State.
	ErrNilState = errors.New("component: nil state")
)
