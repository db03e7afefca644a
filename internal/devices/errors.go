package devices

import "errors"

// Domain errors for the devices package. Value and kind errors are the
// component package's sentinels; only device-specific conditions live here.
var (
	// ErrNoReading is returned when a derived sensor value is requested
	// before the first sample has been observed.
	ErrNoReading = errors.New("devices: no reading observed yet")
)
