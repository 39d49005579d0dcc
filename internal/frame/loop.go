package frame

import (
	"sync"
	"time"
)

var _ Driver = (*Loop)(nil)

// Loop drives ticks from its own goroutine at a fixed interval
type Loop struct {
	interval time.Duration
	clock    Clock
	posts    queue
	wake     chan struct{}

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewLoop creates a stopped loop. A nil clock uses the wall clock.
func NewLoop(interval time.Duration, clock Clock) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		interval: interval,
		clock:    clock,
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the loop goroutine. Calling Start on a running loop does
// nothing; a Start racing a Stop waits for the old goroutine to exit.
func (l *Loop) Start(tick TickFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stop != nil {
		return
	}
	if l.done != nil {
		<-l.done
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.run(tick, l.stop, l.done)
}

// Stop halts the loop and waits for an in-flight tick to return.
// Must not be called from inside the tick function.
func (l *Loop) Stop() {
	l.mu.Lock()
	stop, done := l.stop, l.done
	l.stop = nil
	l.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Post queues fn for the loop goroutine
func (l *Loop) Post(fn func()) {
	l.posts.push(fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Running reports whether the loop goroutine is live
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stop != nil
}

func (l *Loop) run(tick TickFunc, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.posts.drain()

	for {
		select {
		case <-stop:
			return

		case <-l.wake:
			l.posts.drain()

		case <-ticker.C:
			// A stop racing with the ticker wins
			select {
			case <-stop:
				return
			default:
			}
			l.posts.drain()
			tick(l.clock.Now())
		}
	}
}
