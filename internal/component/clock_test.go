package component

import (
	"sync"
	"testing"
	"time"
)

// countingLogger counts calls per level so tests can assert on the benign
// misuse warnings without capturing output.
type countingLogger struct {
	mu    sync.Mutex
	warns int
}

func (l *countingLogger) Debug(string, ...any) {}
func (l *countingLogger) Info(string, ...any)  {}
func (l *countingLogger) Error(string, ...any) {}

func (l *countingLogger) Warn(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns++
}

func (l *countingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warns
}

func TestClockState_Equals(t *testing.T) {
	a := ClockState{Running: true, Tick: 3}

	equal, err := a.Equals(ClockState{Running: true, Tick: 3})
	if err != nil {
		t.Fatalf("Equals() error = %v", err)
	}
	if !equal {
		t.Error("Equals() = false for identical states")
	}

	equal, err = a.Equals(ClockState{Running: true, Tick: 4})
	if err != nil {
		t.Fatalf("Equals() error = %v", err)
	}
	if equal {
		t.Error("Equals() = true for different tick counts")
	}
}

func TestClock_TicksMonotonically(t *testing.T) {
	clock := NewClock(0) // tick as fast as possible

	var mu sync.Mutex
	var ticks []int
	enough := make(chan struct{})
	var once sync.Once

	clock.OnState(func(s State) {
		cs := s.(ClockState)
		if !cs.Running {
			return
		}
		mu.Lock()
		ticks = append(ticks, cs.Tick)
		mu.Unlock()
		if cs.Tick >= 5 {
			once.Do(func() { close(enough) })
		}
	})

	clock.Start()
	select {
	case <-enough:
	case <-time.After(5 * time.Second):
		t.Fatal("clock did not reach tick 5 in time")
	}
	clock.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(ticks) == 0 {
		t.Fatal("no running transitions observed")
	}
	if ticks[0] != 0 {
		t.Errorf("first tick = %d, want 0", ticks[0])
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i] != ticks[i-1]+1 {
			t.Fatalf("ticks = %v, want each tick one greater than the last", ticks)
		}
	}
}

func TestClock_StopHaltsTicking(t *testing.T) {
	clock := NewClock(0)

	var mu sync.Mutex
	transitions := 0
	started := make(chan struct{})
	var once sync.Once

	clock.OnState(func(s State) {
		mu.Lock()
		transitions++
		mu.Unlock()
		once.Do(func() { close(started) })
	})

	clock.Start()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("clock never committed its initial transition")
	}
	clock.Stop()

	if got := clock.State().(ClockState); got.Running {
		t.Errorf("State() = %+v after Stop, want not running", got)
	}

	mu.Lock()
	after := transitions
	mu.Unlock()

	// Stop joins the loop, so the transition count must be final.
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	final := transitions
	mu.Unlock()
	if final != after {
		t.Errorf("observed %d transitions after Stop returned, want 0", final-after)
	}
}

func TestClock_RestartResetsTick(t *testing.T) {
	clock := NewClock(0)

	firstZero := make(chan struct{})
	secondZero := make(chan struct{})
	starts := 0
	clock.OnState(func(s State) {
		cs := s.(ClockState)
		if cs.Running && cs.Tick == 0 {
			starts++
			switch starts {
			case 1:
				close(firstZero)
			case 2:
				close(secondZero)
			}
		}
	})

	clock.Start()
	select {
	case <-firstZero:
	case <-time.After(5 * time.Second):
		t.Fatal("first start never committed tick 0")
	}
	clock.Stop()

	clock.Start()
	select {
	case <-secondZero:
	case <-time.After(5 * time.Second):
		t.Fatal("restart never committed tick 0")
	}
	clock.Stop()
}

func TestClock_DoubleStartWarns(t *testing.T) {
	// Stop waits out at most one interval; keep it short so the deferred
	// Stop returns promptly.
	clock := NewClock(10 * time.Millisecond)
	logger := &countingLogger{}
	clock.SetLogger(logger)

	clock.Start()
	defer clock.Stop()

	clock.Start()
	if got := logger.warnCount(); got != 1 {
		t.Errorf("Warn called %d times after double Start, want 1", got)
	}
}

func TestClock_StopWithoutStartWarns(t *testing.T) {
	clock := NewClock(10 * time.Millisecond)
	logger := &countingLogger{}
	clock.SetLogger(logger)

	done := make(chan struct{})
	go func() {
		clock.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on a never-started clock blocked")
	}
	if got := logger.warnCount(); got != 1 {
		t.Errorf("Warn called %d times, want 1", got)
	}
}

func TestClock_StopRacingStart(t *testing.T) {
	// Stop immediately after Start must terminate the loop even when the
	// stop request wins the race to the commit lock.
	for i := 0; i < 50; i++ {
		clock := NewClock(0)
		clock.Start()
		clock.Stop()

		if got := clock.State().(ClockState); got.Running {
			t.Fatalf("iteration %d: State() = %+v after Stop, want not running", i, got)
		}
	}
}
