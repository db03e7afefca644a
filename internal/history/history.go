package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nerrad567/pin-logic-core/internal/component"
)

// Sources describe where a recorded transition originated.
const (
	SourceCaller = "caller" // externally driven SetState
	SourceLoop   = "loop"   // committed by a background loop
)

// Default and maximum page sizes for History queries.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ErrComponentIDRequired is returned when a record or query names no
// component.
var ErrComponentIDRequired = errors.New("history: component id is required")

// Entry is one recorded state transition.
type Entry struct {
	ID          string          `json:"id"`
	ComponentID string          `json:"component_id"`
	State       json.RawMessage `json:"state"`
	Source      string          `json:"source"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Recorder stores state transitions.
type Recorder interface {
	// Record appends one transition for a component.
	Record(ctx context.Context, componentID string, state component.State, source string) error

	// History returns recent transitions for a component, newest first.
	// limit defaults to 50 and is capped at 200.
	History(ctx context.Context, componentID string, limit int) ([]Entry, error)
}

// Logger defines the logging interface used when recording fails inside an
// observer callback, where no error can be returned.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observable is the slice of the component contract the recorder needs.
type Observable interface {
	OnState(func(component.State))
}

// Attach registers a trigger-less observer on a component that records every
// transition under the given id. Recording failures are logged, never
// propagated: a broken audit trail must not take the device down with it.
func Attach(rec Recorder, componentID string, c Observable, source string, logger Logger) {
	c.OnState(func(s component.State) {
		if err := rec.Record(context.Background(), componentID, s, source); err != nil {
			logger.Error("recording state transition",
				"component_id", componentID,
				"error", err,
			)
		}
	})
}
