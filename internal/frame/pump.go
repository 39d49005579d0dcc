package frame

import "sync"

var _ Driver = (*Pump)(nil)

// Pump runs a tick each time the host calls Step. The host's refresh
// callback is the execution context; Pump owns no goroutine.
type Pump struct {
	clock Clock
	posts queue

	mu   sync.Mutex
	tick TickFunc
}

// NewPump creates a stopped pump. A nil clock uses the wall clock.
func NewPump(clock Clock) *Pump {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Pump{clock: clock}
}

func (p *Pump) Start(tick TickFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tick == nil {
		p.tick = tick
	}
}

func (p *Pump) Stop() {
	p.mu.Lock()
	p.tick = nil
	p.mu.Unlock()
}

func (p *Pump) Post(fn func()) {
	p.posts.push(fn)
}

func (p *Pump) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tick != nil
}

// Step drains posted work and runs one tick. It does nothing while stopped;
// posted work waits for the next started step.
func (p *Pump) Step() {
	if !p.Running() {
		return
	}
	p.posts.drain()

	// Posted work may have stopped the pump
	p.mu.Lock()
	tick := p.tick
	p.mu.Unlock()
	if tick == nil {
		return
	}
	tick(p.clock.Now())
}
