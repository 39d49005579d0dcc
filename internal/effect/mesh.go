package effect

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/particle"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

// Pulse bounds: radius stays within base*(1 ± PulseAmplitude)
const (
	PulseAmplitude = 0.05
	PhaseStep      = 1.5
)

const (
	blobX = iota
	blobY
	blobVX
	blobVY
	blobBase
	blobRadius
	blobStride
)

// PulsedRadius is base modulated by blob i's sinusoid at time t
func PulsedRadius(base, t, rate float64, i int) float64 {
	return base * (1 + PulseAmplitude*math.Sin(t*rate+float64(i)*PhaseStep))
}

// Mesh drifts a handful of soft colour blobs around normalized space,
// bouncing off the edges
type Mesh struct {
	core
	opts       config.MeshOptions
	background color.NRGBA
	colors     []color.NRGBA
	opacity    float64
}

func NewMesh(opts config.MeshOptions, pal config.Palette, rng *rand.Rand) (*Mesh, error) {
	colors := pal.Blobs
	if len(opts.Colors) > 0 {
		colors = make([]color.NRGBA, 0, len(opts.Colors))
		for _, s := range opts.Colors {
			c, err := config.ParseHex(s)
			if err != nil {
				return nil, err
			}
			colors = append(colors, c)
		}
	}
	return &Mesh{
		core:       core{rng: rng},
		opts:       opts,
		background: pal.Background,
		colors:     colors,
		opacity:    pal.Opacity,
	}, nil
}

func (m *Mesh) Name() string { return config.EffectMesh }

func (m *Mesh) seed(_ int, p []float64) {
	p[blobX] = particle.Uniform(m.rng, 0, 1)
	p[blobY] = particle.Uniform(m.rng, 0, 1)
	angle := particle.Uniform(m.rng, 0, 2*math.Pi)
	speed := m.opts.Speed * particle.Uniform(m.rng, 0.5, 1.5)
	p[blobVX] = math.Cos(angle) * speed
	p[blobVY] = math.Sin(angle) * speed
	p[blobBase] = m.opts.Radius * particle.Uniform(m.rng, 0.8, 1.2)
	p[blobRadius] = p[blobBase]
}

// Resize only records the size; blob space is normalized
func (m *Mesh) Resize(d Dimensions) {
	if !d.Valid() {
		return
	}
	m.dims = d
	if m.buf == nil {
		m.buf = particle.Init(m.opts.Blobs, blobStride, m.seed)
	}
}

func (m *Mesh) Update(sig Signal) {
	if m.buf == nil {
		return
	}
	m.buf.Each(func(i int, p []float64) {
		p[blobX], p[blobVX] = particle.Reflect(p[blobX]+p[blobVX], p[blobVX], 0, 1)
		p[blobY], p[blobVY] = particle.Reflect(p[blobY]+p[blobVY], p[blobVY], 0, 1)
		p[blobRadius] = PulsedRadius(p[blobBase], sig.Time, m.opts.PulseRate, i)
	})
}

func (m *Mesh) Draw(surf render.Surface) {
	surf.Clear(m.background)
	if m.buf == nil || len(m.colors) == 0 {
		return
	}
	w, h := m.dims.Width, m.dims.Height
	extent := math.Max(w, h)
	m.buf.Each(func(i int, p []float64) {
		surf.FillRadialGradient(
			float32(p[blobX]*w),
			float32(p[blobY]*h),
			float32(p[blobRadius]*extent),
			render.WithAlpha(m.colors[i%len(m.colors)], m.opacity),
		)
	})
}
