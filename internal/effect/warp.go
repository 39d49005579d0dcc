package effect

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/particle"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

// Surge doubles the tunnel speed while sin(time*SurgeRate) > SurgeThreshold,
// about 14% of every 4π-second period
const (
	SurgeRate      = 0.5
	SurgeThreshold = 0.9
	SurgeFactor    = 2.0
)

// Tunnel spin and breathing
const (
	spinRate    = 0.05
	breatheRate = 0.7
	breatheAmp  = 0.03
)

const (
	warpX = iota
	warpY
	warpZ
	warpStride
)

// Surging reports whether t (seconds) falls in a surge window
func Surging(t float64) bool {
	return math.Sin(t*SurgeRate) > SurgeThreshold
}

// CurrentSpeed is base plus a scroll boost clamped at limit, doubled while
// surging. It is non-decreasing in scroll.
func CurrentSpeed(base, scroll, factor, limit, t float64) float64 {
	boost := math.Min(math.Max(scroll, 0)*factor, limit)
	speed := base + boost
	if Surging(t) {
		speed *= SurgeFactor
	}
	return speed
}

// Transform is the tunnel's per-tick scene transform
type Transform struct {
	Rotation float64
	Scale    float64
}

// TunnelTransform computes the transform for time t
func TunnelTransform(t float64) Transform {
	return Transform{
		Rotation: t * spinRate,
		Scale:    1 + breatheAmp*math.Sin(t*breatheRate),
	}
}

// Warp flies dust toward the viewer. Depth runs from 0 (far) to opts.Depth
// (near); a particle crossing the near plane respawns at the far plane.
type Warp struct {
	core
	opts       config.WarpOptions
	background color.NRGBA
	normal     color.NRGBA
	surge      color.NRGBA
	opacity    float64
	surgeAlpha float64

	// per-tick engine state, written by Update and read by Draw
	speed     float64
	surging   bool
	transform Transform
}

func NewWarp(opts config.WarpOptions, pal config.Palette, rng *rand.Rand) (*Warp, error) {
	normal, err := config.Resolve(opts.Color, pal.Warp)
	if err != nil {
		return nil, err
	}
	surge, err := config.Resolve(opts.SurgeColor, pal.Surge)
	if err != nil {
		return nil, err
	}
	return &Warp{
		core:       core{rng: rng},
		opts:       opts,
		background: pal.Background,
		normal:     normal,
		surge:      surge,
		opacity:    pal.Opacity,
		surgeAlpha: pal.SurgeOpacity,
		transform:  Transform{Scale: 1},
	}, nil
}

func (w *Warp) Name() string { return config.EffectWarp }

// Speed returns the speed applied on the last tick
func (w *Warp) Speed() float64 { return w.speed }

// Surge reports whether the last tick was in a surge window
func (w *Warp) Surge() bool { return w.surging }

func (w *Warp) respawn(p []float64) {
	p[warpX] = particle.Uniform(w.rng, -w.opts.Spread, w.opts.Spread)
	p[warpY] = particle.Uniform(w.rng, -w.opts.Spread, w.opts.Spread)
}

func (w *Warp) seed(_ int, p []float64) {
	w.respawn(p)
	p[warpZ] = particle.Uniform(w.rng, 0, w.opts.Depth)
}

// Resize only changes the projection; the tunnel volume and count are fixed
func (w *Warp) Resize(d Dimensions) {
	if !d.Valid() {
		return
	}
	w.dims = d
	if w.buf == nil {
		w.buf = particle.Init(w.opts.Count, warpStride, w.seed)
	}
}

func (w *Warp) Update(sig Signal) {
	w.surging = Surging(sig.Time)
	w.speed = CurrentSpeed(w.opts.Speed, sig.Scroll, w.opts.ScrollFactor, w.opts.ScrollCap, sig.Time)
	w.transform = TunnelTransform(sig.Time)
	if w.buf == nil {
		return
	}
	w.buf.Each(func(_ int, p []float64) {
		p[warpZ] += w.speed
		if p[warpZ] >= w.opts.Depth {
			p[warpZ] = 0
			w.respawn(p)
		}
	})
}

func (w *Warp) Draw(surf render.Surface) {
	background(surf, w.dims, w.background, w.opts.Trail)
	if w.buf == nil {
		return
	}

	col, opacity := w.normal, w.opacity
	if w.surging {
		col, opacity = w.surge, w.surgeAlpha
	}

	cx, cy := w.dims.Width/2, w.dims.Height/2
	focal := math.Min(w.dims.Width, w.dims.Height) * 0.8
	sin, cos := math.Sincos(w.transform.Rotation)
	depth := w.opts.Depth

	w.buf.Each(func(_ int, p []float64) {
		dist := depth - p[warpZ]
		if dist < 1 {
			return
		}
		x := p[warpX]*cos - p[warpY]*sin
		y := p[warpX]*sin + p[warpY]*cos
		k := focal / dist * w.transform.Scale
		sx, sy := cx+x*k, cy+y*k
		if sx < 0 || sy < 0 || sx >= w.dims.Width || sy >= w.dims.Height {
			return
		}
		near := 1 - dist/depth
		surf.FillCircle(
			float32(sx),
			float32(sy),
			float32(w.opts.Size*(0.3+2*near)),
			render.WithAlpha(col, opacity*near),
		)
	})
}
