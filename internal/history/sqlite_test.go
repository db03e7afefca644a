package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/devices"
	"github.com/nerrad567/pin-logic-core/internal/history"
	"github.com/nerrad567/pin-logic-core/internal/infrastructure/database"
	_ "github.com/nerrad567/pin-logic-core/migrations"
)

func newTestRecorder(t *testing.T) *history.SQLiteRecorder {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return history.NewSQLiteRecorder(db.DB)
}

func TestSQLiteRecorder_RecordAndHistory(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	states := []devices.LEDState{{On: true}, {On: false}, {On: true}}
	for _, s := range states {
		if err := rec.Record(ctx, "led", s, history.SourceCaller); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := rec.Record(ctx, "other", devices.BuzzerState{Buzzing: true}, history.SourceLoop); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := rec.History(ctx, "led", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != len(states) {
		t.Fatalf("History() returned %d entries, want %d", len(entries), len(states))
	}

	for _, e := range entries {
		if e.ComponentID != "led" {
			t.Errorf("ComponentID = %q, want led", e.ComponentID)
		}
		if e.Source != history.SourceCaller {
			t.Errorf("Source = %q, want %q", e.Source, history.SourceCaller)
		}
		if e.ID == "" {
			t.Error("entry has empty ID")
		}
		var decoded devices.LEDState
		if err := json.Unmarshal(e.State, &decoded); err != nil {
			t.Errorf("decoding state %s: %v", e.State, err)
		}
	}

	// Newest first.
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.After(entries[i-1].CreatedAt) {
			t.Errorf("entries not ordered newest first: %v before %v",
				entries[i-1].CreatedAt, entries[i].CreatedAt)
		}
	}
}

func TestSQLiteRecorder_RequiresComponentID(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	if err := rec.Record(ctx, "", devices.LEDState{}, history.SourceCaller); !errors.Is(err, history.ErrComponentIDRequired) {
		t.Errorf("Record() error = %v, want ErrComponentIDRequired", err)
	}
	if _, err := rec.History(ctx, "", 0); !errors.Is(err, history.ErrComponentIDRequired) {
		t.Errorf("History() error = %v, want ErrComponentIDRequired", err)
	}
}

func TestSQLiteRecorder_HistoryLimit(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		state := devices.LEDState{On: i%2 == 0}
		if err := rec.Record(ctx, "led", state, history.SourceLoop); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := rec.History(ctx, "led", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 50 {
		t.Errorf("History(limit=0) returned %d entries, want default 50", len(entries))
	}

	entries, err = rec.History(ctx, "led", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("History(limit=10) returned %d entries, want 10", len(entries))
	}
}

func TestSQLiteRecorder_Prune(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	if err := rec.Record(ctx, "led", devices.LEDState{On: true}, history.SourceCaller); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	removed, err := rec.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("Prune() removed %d fresh entries, want 0", removed)
	}

	removed, err = rec.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d entries, want 1", removed)
	}

	entries, err := rec.History(ctx, "led", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("History() returned %d entries after prune, want 0", len(entries))
	}
}

func TestAttach_RecordsTransitions(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	c := component.New(devices.LEDState{On: false})
	history.Attach(rec, "led", c, history.SourceCaller, testLogger{t})

	if _, err := c.SetState(devices.LEDState{On: true}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if _, err := c.SetState(devices.LEDState{On: true}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if _, err := c.SetState(devices.LEDState{On: false}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	entries, err := rec.History(ctx, "led", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	// The repeated commit is a no-op and must not be recorded.
	if len(entries) != 2 {
		t.Errorf("History() returned %d entries, want 2", len(entries))
	}
}

// testLogger routes recorder errors into the test log.
type testLogger struct {
	t *testing.T
}

func (l testLogger) Debug(msg string, args ...any) {}
func (l testLogger) Info(msg string, args ...any)  {}
func (l testLogger) Warn(msg string, args ...any)  {}
func (l testLogger) Error(msg string, args ...any) {
	l.t.Errorf("unexpected recorder error: %s %v", msg, args)
}
