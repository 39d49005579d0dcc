// Package scene binds one effect to a drawing surface and a frame driver
// and owns the mount/unmount lifecycle.
package scene

import (
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/olivierh59500/backdrop-go/internal/effect"
	"github.com/olivierh59500/backdrop-go/internal/frame"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

// AcquireFunc returns the surface to draw on, or an error while the host
// has none yet
type AcquireFunc func() (render.Surface, error)

// ScrollSource reports the host's vertical scroll offset
type ScrollSource func() float64

// Options are sampled once per tick
type Options struct {
	Scroll     ScrollSource
	PixelRatio func() float64
	Logger     *log.Logger
}

// Scene runs an effect on a driver. Mount and Unmount may be called any
// number of times; each Unmount tears the cycle down exactly once.
type Scene struct {
	effect  effect.Effect
	driver  frame.Driver
	acquire AcquireFunc
	scroll  ScrollSource
	ratio   func() float64
	log     *log.Logger

	mu       sync.Mutex
	mounted  bool
	teardown *sync.Once

	ticks atomic.Int64
	// gen advances on every teardown so resizes posted by an earlier mount
	// are dropped
	gen   atomic.Int64

	// owned by the tick context
	surface render.Surface
	dims    effect.Dimensions
	start   time.Time
	warned  bool
}

func New(e effect.Effect, d frame.Driver, acquire AcquireFunc, opts Options) *Scene {
	s := &Scene{
		effect:  e,
		driver:  d,
		acquire: acquire,
		scroll:  opts.Scroll,
		ratio:   opts.PixelRatio,
		log:     opts.Logger,
	}
	if s.scroll == nil {
		s.scroll = func() float64 { return 0 }
	}
	if s.ratio == nil {
		s.ratio = func() float64 { return 1 }
	}
	if s.log == nil {
		s.log = log.Default()
	}
	return s
}

func (s *Scene) Effect() effect.Effect { return s.effect }

// Ticks returns the number of frames drawn since New
func (s *Scene) Ticks() int64 { return s.ticks.Load() }

func (s *Scene) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Mount starts the driver. The surface is acquired on the first tick.
func (s *Scene) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted {
		return
	}
	s.mounted = true
	s.teardown = new(sync.Once)
	s.dims = effect.Dimensions{}
	s.start = time.Time{}
	s.warned = false
	s.driver.Start(s.tick)
}

// Unmount stops the driver, then releases the particle buffer and the
// surface. No tick runs after it returns. Must not be called from a tick.
func (s *Scene) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teardown == nil {
		return
	}
	s.mounted = false
	s.teardown.Do(func() {
		s.gen.Add(1)
		s.driver.Stop()
		s.effect.Release()
		if s.surface != nil {
			s.surface.Dispose()
			s.surface = nil
		}
	})
}

// Resize applies a new surface size between ticks. Non-positive sizes are
// ignored.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	gen := s.gen.Load()
	s.driver.Post(func() {
		if s.gen.Load() != gen {
			return
		}
		s.dims = effect.Dimensions{Width: float64(width), Height: float64(height)}
		if r, ok := s.surface.(render.Resizer); ok {
			r.Resize(width, height)
		}
		s.effect.Resize(s.dims)
	})
}

// attach acquires the surface once it is available
func (s *Scene) attach() bool {
	surf, err := s.acquire()
	if err != nil {
		if !s.warned {
			s.log.Printf("scene: %s waiting for surface: %v", s.effect.Name(), err)
			s.warned = true
		}
		return false
	}
	s.surface = surf

	if s.dims.Valid() {
		if r, ok := surf.(render.Resizer); ok {
			r.Resize(int(s.dims.Width), int(s.dims.Height))
		}
	} else {
		w, h := surf.Size()
		s.dims = effect.Dimensions{Width: float64(w), Height: float64(h)}
	}
	s.effect.Resize(s.dims)
	return true
}

func (s *Scene) tick(now time.Time) {
	if s.start.IsZero() {
		s.start = now
	}
	if s.surface == nil && !s.attach() {
		return
	}

	s.effect.Update(effect.Signal{
		Time:       now.Sub(s.start).Seconds(),
		Scroll:     math.Max(s.scroll(), 0),
		PixelRatio: s.ratio(),
	})
	s.effect.Draw(s.surface)
	if p, ok := s.surface.(render.Presenter); ok {
		p.Present()
	}
	s.ticks.Add(1)
}
