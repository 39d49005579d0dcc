// Package frame schedules one tick per display refresh.
//
// Two drivers are provided. Loop owns a goroutine paced by a ticker and is
// used by hosts without their own refresh callback. Pump is stepped by a
// host that already has one (the ebiten Update callback). Both run posted
// work and ticks on a single execution context, so neither overlaps.
package frame

import (
	"sync"
	"time"
)

// DefaultInterval is one refresh at 60Hz
const DefaultInterval = time.Second / 60

// TickFunc is invoked once per refresh with the sampled time
type TickFunc func(now time.Time)

// Clock supplies tick timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Driver starts and stops a tick loop.
// Stop guarantees that no tick runs after it returns. Stop without Start is a
// no-op and a stopped driver can be started again.
type Driver interface {
	Start(tick TickFunc)
	Stop()
	// Post runs fn on the tick context, before the next tick
	Post(fn func())
	Running() bool
}

// queue holds posted work until the tick context drains it
type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) push(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

func (q *queue) drain() {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
