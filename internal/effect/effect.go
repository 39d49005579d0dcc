// Package effect holds the per-frame update and draw rules for every
// background. Each effect owns one particle buffer; nothing is shared
// between effects.
package effect

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/olivierh59500/backdrop-go/internal/particle"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

// Dimensions is the size of the drawing target in surface units
type Dimensions struct {
	Width, Height float64
}

// Valid reports whether both sides are positive
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Signal is the read-only host input sampled once per tick
type Signal struct {
	// Time is seconds since mount
	Time float64
	// Scroll is the host's vertical scroll offset, never negative
	Scroll float64
	// PixelRatio is the device scale factor
	PixelRatio float64
}

// Effect is one background animation.
// Resize, Update and Draw are called from the same execution context.
type Effect interface {
	Name() string
	// Resize updates the surface size and reseeds per the effect's capacity policy
	Resize(d Dimensions)
	// Update advances every particle by one tick
	Update(sig Signal)
	// Draw paints the current state. It never changes particle state.
	Draw(s render.Surface)
	// Len returns the live particle count
	Len() int
	// Release drops the particle buffer
	Release()
}

// core carries the state every effect has
type core struct {
	rng  *rand.Rand
	dims Dimensions
	buf  *particle.Buffer
}

func (c *core) Len() int {
	if c.buf == nil {
		return 0
	}
	return c.buf.Len()
}

// Release drops the buffer; the next Resize seeds a fresh one
func (c *core) Release() {
	if c.buf != nil {
		c.buf.Release()
		c.buf = nil
	}
}

// rescale moves the x/y attributes proportionally to a new size so every
// particle stays inside the surface
func (c *core) rescale(xi, yi int, to Dimensions) {
	from := c.dims
	if c.buf == nil || !from.Valid() {
		return
	}
	sx, sy := to.Width/from.Width, to.Height/from.Height
	c.buf.Each(func(_ int, p []float64) {
		p[xi] = math.Min(p[xi]*sx, math.Nextafter(to.Width, 0))
		p[yi] = math.Min(p[yi]*sy, math.Nextafter(to.Height, 0))
	})
}

// background either clears the surface or, with a trail, lays a translucent
// wash of bg over the previous frame
func background(s render.Surface, d Dimensions, bg color.NRGBA, trail float64) {
	if trail > 0 && trail < 1 {
		s.FillRect(0, 0, float32(d.Width), float32(d.Height), render.WithAlpha(bg, trail))
		return
	}
	s.Clear(bg)
}
