package effect

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/particle"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

// Perlin generator parameters
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
	// fieldDrift is how fast the flow field evolves, in noise units per second
	fieldDrift = 0.05
)

const (
	dustX = iota
	dustY
	dustVX
	dustVY
	dustHue
	dustStride
)

// Drift pushes dust along a slowly evolving perlin flow field and wraps it
// toroidally at the edges
type Drift struct {
	core
	opts       config.DriftOptions
	noise      *perlin.Perlin
	background color.NRGBA
	value      float64
	opacity    float64
}

func NewDrift(opts config.DriftOptions, pal config.Palette, rng *rand.Rand) *Drift {
	return &Drift{
		core:       core{rng: rng},
		opts:       opts,
		noise:      perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, rng.Int63()),
		background: pal.Background,
		value:      pal.DriftValue,
		opacity:    pal.Opacity,
	}
}

func (d *Drift) Name() string { return config.EffectDrift }

func (d *Drift) seed(_ int, p []float64) {
	p[dustX] = particle.Uniform(d.rng, 0, d.dims.Width)
	p[dustY] = particle.Uniform(d.rng, 0, d.dims.Height)
	p[dustVX] = 0
	p[dustVY] = 0
	p[dustHue] = particle.Uniform(d.rng, 0, 360)
}

// Resize keeps the count and rescales positions into the new size
func (d *Drift) Resize(dim Dimensions) {
	if !dim.Valid() {
		return
	}
	if d.buf == nil {
		d.dims = dim
		d.buf = particle.Init(d.opts.Count, dustStride, d.seed)
		return
	}
	d.rescale(dustX, dustY, dim)
	d.dims = dim
}

func (d *Drift) Update(sig Signal) {
	if d.buf == nil {
		return
	}
	w, h := d.dims.Width, d.dims.Height
	z := sig.Time * fieldDrift
	damp := 1 - d.opts.Friction
	d.buf.Each(func(_ int, p []float64) {
		n := d.noise.Noise3D(p[dustX]*d.opts.NoiseScale, p[dustY]*d.opts.NoiseScale, z)
		angle := (n + 1) / 2 * 2 * math.Pi
		p[dustVX] = (p[dustVX] + math.Cos(angle)*d.opts.Force) * damp
		p[dustVY] = (p[dustVY] + math.Sin(angle)*d.opts.Force) * damp

		if speed := math.Hypot(p[dustVX], p[dustVY]); speed > d.opts.MaxSpeed {
			p[dustVX] = p[dustVX] / speed * d.opts.MaxSpeed
			p[dustVY] = p[dustVY] / speed * d.opts.MaxSpeed
		}

		p[dustX] = particle.Wrap(p[dustX]+p[dustVX], w)
		p[dustY] = particle.Wrap(p[dustY]+p[dustVY], h)
	})
}

func (d *Drift) Draw(surf render.Surface) {
	background(surf, d.dims, d.background, d.opts.Trail)
	if d.buf == nil {
		return
	}
	size := float32(d.opts.Size)
	d.buf.Each(func(_ int, p []float64) {
		speed := math.Hypot(p[dustVX], p[dustVY])
		c := render.HSV(p[dustHue]+speed*120, 0.8, d.value)
		surf.FillRect(float32(p[dustX]), float32(p[dustY]), size, size, render.WithAlpha(c, d.opacity))
	})
}
