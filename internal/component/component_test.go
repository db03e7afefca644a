package component

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// switchState is a minimal boolean state used throughout these tests.
type switchState struct {
	On bool
}

func (s switchState) Equals(other State) (bool, error) {
	o, ok := other.(switchState)
	if !ok {
		return false, fmt.Errorf("%w: expected switchState, got %T", ErrStateMismatch, other)
	}
	return s == o, nil
}

// levelState is a second state kind for cross-kind comparison tests.
type levelState struct {
	Level int
}

func (s levelState) Equals(other State) (bool, error) {
	o, ok := other.(levelState)
	if !ok {
		return false, fmt.Errorf("%w: expected levelState, got %T", ErrStateMismatch, other)
	}
	return s == o, nil
}

func TestNew_PanicsOnNilState(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("New(nil) did not panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNilState) {
			t.Errorf("panic value = %v, want ErrNilState", r)
		}
	}()
	New(nil)
}

func TestComponent_SetState(t *testing.T) {
	t.Run("commits a changed state", func(t *testing.T) {
		c := New(switchState{On: false})

		changed, err := c.SetState(switchState{On: true})
		if err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		if !changed {
			t.Error("SetState() changed = false, want true")
		}
		if got := c.State().(switchState); !got.On {
			t.Errorf("State() = %+v, want On", got)
		}
	})

	t.Run("equal state is a no-op", func(t *testing.T) {
		c := New(switchState{On: true})

		fired := 0
		c.On(nil, func() { fired++ })

		changed, err := c.SetState(switchState{On: true})
		if err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		if changed {
			t.Error("SetState() changed = true, want false")
		}
		if fired != 0 {
			t.Errorf("event fired %d times on no-op commit, want 0", fired)
		}
	})

	t.Run("mismatched kind returns ErrStateMismatch and commits nothing", func(t *testing.T) {
		c := New(switchState{On: false})

		changed, err := c.SetState(levelState{Level: 3})
		if !errors.Is(err, ErrStateMismatch) {
			t.Fatalf("SetState() error = %v, want ErrStateMismatch", err)
		}
		if changed {
			t.Error("SetState() changed = true, want false")
		}
		if _, ok := c.State().(switchState); !ok {
			t.Errorf("State() = %T, want switchState after rejected commit", c.State())
		}
	})
}

func TestComponent_On(t *testing.T) {
	t.Run("change fires event exactly once", func(t *testing.T) {
		c := New(switchState{On: false})

		fired := 0
		c.On(nil, func() { fired++ })

		if _, err := c.SetState(switchState{On: true}); err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		if fired != 1 {
			t.Errorf("event fired %d times, want 1", fired)
		}
	})

	t.Run("trigger gates the event", func(t *testing.T) {
		c := New(switchState{On: false})

		onOnly := 0
		c.On(func(s State) bool { return s.(switchState).On }, func() { onOnly++ })

		if _, err := c.SetState(switchState{On: true}); err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		if _, err := c.SetState(switchState{On: false}); err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		if onOnly != 1 {
			t.Errorf("gated event fired %d times, want 1 (on transitions only)", onOnly)
		}
	})

	t.Run("events fire in registration order", func(t *testing.T) {
		c := New(switchState{On: false})

		var order []int
		for i := 0; i < 5; i++ {
			i := i
			c.On(nil, func() { order = append(order, i) })
		}

		if _, err := c.SetState(switchState{On: true}); err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		for i, got := range order {
			if got != i {
				t.Fatalf("order = %v, want ascending registration order", order)
			}
		}
		if len(order) != 5 {
			t.Errorf("fired %d events, want 5", len(order))
		}
	})

	t.Run("registration does not fire retroactively", func(t *testing.T) {
		c := New(switchState{On: true})

		fired := 0
		c.On(nil, func() { fired++ })

		if fired != 0 {
			t.Errorf("event fired %d times at registration, want 0", fired)
		}
	})
}

func TestComponent_OnState(t *testing.T) {
	c := New(switchState{On: false})

	var seen []switchState
	c.OnState(func(s State) { seen = append(seen, s.(switchState)) })

	if _, err := c.SetState(switchState{On: true}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if _, err := c.SetState(switchState{On: false}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	want := []switchState{{On: true}, {On: false}}
	if len(seen) != len(want) {
		t.Fatalf("observed %d states, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %+v, want %+v", i, seen[i], want[i])
		}
	}
}

func TestComponent_Apply(t *testing.T) {
	t.Run("nil return leaves state unchanged", func(t *testing.T) {
		c := New(switchState{On: true})

		fired := 0
		c.On(nil, func() { fired++ })

		changed, err := c.Apply(func(State) State { return nil })
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if changed {
			t.Error("Apply() changed = true, want false")
		}
		if fired != 0 {
			t.Errorf("event fired %d times, want 0", fired)
		}
	})

	t.Run("closure sees the current state", func(t *testing.T) {
		c := New(levelState{Level: 3})

		changed, err := c.Apply(func(s State) State {
			return levelState{Level: s.(levelState).Level + 1}
		})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !changed {
			t.Error("Apply() changed = false, want true")
		}
		if got := c.State().(levelState).Level; got != 4 {
			t.Errorf("Level = %d, want 4", got)
		}
	})
}

func TestComponent_ConcurrentCommits(t *testing.T) {
	c := New(levelState{Level: 0})

	fired := 0
	c.On(nil, func() { fired++ })

	const goroutines = 8
	const increments = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				_, _ = c.Apply(func(s State) State {
					return levelState{Level: s.(levelState).Level + 1}
				})
			}
		}()
	}
	wg.Wait()

	want := goroutines * increments
	if got := c.State().(levelState).Level; got != want {
		t.Errorf("Level = %d, want %d (every increment committed)", got, want)
	}
	// Events fire under the commit lock, so the count matches the commits.
	if fired != want {
		t.Errorf("event fired %d times, want %d", fired, want)
	}
}
