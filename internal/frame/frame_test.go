package frame

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stepClock advances by a fixed step on every read
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoopStopPreventsFurtherTicks(t *testing.T) {
	interval := 2 * time.Millisecond
	l := NewLoop(interval, nil)

	var ticks atomic.Int64
	l.Start(func(time.Time) { ticks.Add(1) })
	waitFor(t, func() bool { return ticks.Load() >= 3 })

	l.Stop()
	after := ticks.Load()
	time.Sleep(10 * interval)

	if got := ticks.Load(); got != after {
		t.Fatalf("ticks after Stop: %d, want %d", got, after)
	}
	if l.Running() {
		t.Fatal("Running() true after Stop")
	}
}

func TestLoopStopWaitsForInFlightTick(t *testing.T) {
	l := NewLoop(time.Millisecond, nil)

	entered := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool
	l.Start(func(time.Time) {
		once.Do(func() { close(entered) })
		time.Sleep(5 * time.Millisecond)
		finished.Store(true)
	})

	<-entered
	l.Stop()
	if !finished.Load() {
		t.Fatal("Stop returned while a tick was still running")
	}
}

func TestLoopRestartAndStopWithoutStart(t *testing.T) {
	l := NewLoop(time.Millisecond, nil)
	l.Stop() // no-op

	var ticks atomic.Int64
	tick := func(time.Time) { ticks.Add(1) }

	l.Start(tick)
	l.Start(tick) // already running
	waitFor(t, func() bool { return ticks.Load() >= 1 })
	l.Stop()
	l.Stop()

	before := ticks.Load()
	l.Start(tick)
	waitFor(t, func() bool { return ticks.Load() > before })
	l.Stop()
}

func TestLoopPostRunsBeforeNextTick(t *testing.T) {
	l := NewLoop(time.Millisecond, nil)

	// Not atomic: posted work and ticks share one goroutine
	width := 0
	seen := make(chan int, 64)
	l.Post(func() { width = 640 })
	l.Start(func(time.Time) {
		select {
		case seen <- width:
		default:
		}
	})
	defer l.Stop()

	if got := <-seen; got != 640 {
		t.Fatalf("first tick saw width %d, want 640", got)
	}

	l.Post(func() { width = 800 })
	waitFor(t, func() bool {
		select {
		case w := <-seen:
			return w == 800
		default:
			return false
		}
	})
}

func TestPumpStep(t *testing.T) {
	start := time.Unix(0, 0)
	clock := &stepClock{now: start, step: time.Second / 60}
	p := NewPump(clock)

	var times []time.Time
	tick := func(now time.Time) { times = append(times, now) }

	p.Step() // stopped: nothing
	if len(times) != 0 {
		t.Fatalf("tick ran while stopped")
	}

	order := []string{}
	p.Post(func() { order = append(order, "post") })
	p.Start(func(now time.Time) {
		order = append(order, "tick")
		tick(now)
	})
	p.Step()
	p.Step()

	if len(order) != 3 || order[0] != "post" || order[1] != "tick" {
		t.Fatalf("order = %v, want [post tick tick]", order)
	}
	if !times[1].After(times[0]) {
		t.Fatalf("tick times not increasing: %v", times)
	}

	p.Stop()
	p.Step()
	if len(times) != 2 {
		t.Fatalf("tick ran after Stop")
	}
}

func TestPumpStopFromPostedWork(t *testing.T) {
	p := NewPump(nil)
	ticks := 0
	p.Start(func(time.Time) { ticks++ })
	p.Post(p.Stop)
	p.Step()

	if ticks != 0 {
		t.Fatalf("tick ran after posted Stop")
	}
	if p.Running() {
		t.Fatal("pump still running")
	}
}

func TestLoopStartDuringStopNeverOverlaps(t *testing.T) {
	l := NewLoop(time.Millisecond, nil)

	var inFlight atomic.Int32
	var overlapped atomic.Bool
	var ticks atomic.Int64
	entered := make(chan struct{}, 1)
	tick := func(time.Time) {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		select {
		case entered <- struct{}{}:
		default:
		}
		time.Sleep(5 * time.Millisecond)
		ticks.Add(1)
		inFlight.Add(-1)
	}

	l.Start(tick)
	<-entered

	stopped := make(chan struct{})
	go func() {
		l.Stop()
		close(stopped)
	}()
	waitFor(t, func() bool { return !l.Running() })
	l.Start(tick)
	<-stopped

	before := ticks.Load()
	waitFor(t, func() bool { return ticks.Load() >= before+2 })
	l.Stop()

	if overlapped.Load() {
		t.Fatal("a tick from the restarted loop overlapped the stopping one")
	}
}
