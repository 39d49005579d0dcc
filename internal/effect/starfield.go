package effect

import (
	"image/color"
	"math/rand"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/particle"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

// Twinkle alpha bounds
const (
	MinStarAlpha = 0.2
	MaxStarAlpha = 1.0
)

const (
	starX = iota
	starY
	starDepth
	starAlpha
	starTwinkle
	starStride
)

// Starfield drifts stars downward by their depth and twinkles their alpha
type Starfield struct {
	core
	opts       config.StarfieldOptions
	background color.NRGBA
	color      color.NRGBA
	opacity    float64
}

// NewStarfield builds a starfield. Particles are seeded on the first Resize.
func NewStarfield(opts config.StarfieldOptions, pal config.Palette, rng *rand.Rand) (*Starfield, error) {
	c, err := config.Resolve(opts.Color, pal.Star)
	if err != nil {
		return nil, err
	}
	return &Starfield{
		core:       core{rng: rng},
		opts:       opts,
		background: pal.Background,
		color:      c,
		opacity:    pal.Opacity,
	}, nil
}

func (s *Starfield) Name() string { return config.EffectStarfield }

func (s *Starfield) seed(_ int, p []float64) {
	p[starX] = particle.Uniform(s.rng, 0, s.dims.Width)
	p[starY] = particle.Uniform(s.rng, 0, s.dims.Height)
	p[starDepth] = particle.Uniform(s.rng, 0.5, 2)
	p[starAlpha] = particle.Uniform(s.rng, MinStarAlpha, MaxStarAlpha)
	tw := particle.Uniform(s.rng, 0.005, s.opts.TwinkleSpeed)
	if s.rng.Intn(2) == 0 {
		tw = -tw
	}
	p[starTwinkle] = tw
}

// Resize keeps the star count and rescales positions into the new size
func (s *Starfield) Resize(d Dimensions) {
	if !d.Valid() {
		return
	}
	if s.buf == nil {
		s.dims = d
		s.buf = particle.Init(s.opts.Count, starStride, s.seed)
		return
	}
	s.rescale(starX, starY, d)
	s.dims = d
}

func (s *Starfield) Update(Signal) {
	if s.buf == nil {
		return
	}
	w, h := s.dims.Width, s.dims.Height
	s.buf.Each(func(_ int, p []float64) {
		p[starY] += s.opts.Speed * p[starDepth]
		p[starAlpha] += p[starTwinkle]
		p[starAlpha], p[starTwinkle] = particle.Reflect(p[starAlpha], p[starTwinkle], MinStarAlpha, MaxStarAlpha)

		if p[starY] > h {
			p[starY] = 0
			p[starX] = particle.Uniform(s.rng, 0, w)
		}
	})
}

func (s *Starfield) Draw(surf render.Surface) {
	background(surf, s.dims, s.background, s.opts.Trail)
	if s.buf == nil {
		return
	}
	s.buf.Each(func(_ int, p []float64) {
		surf.FillCircle(
			float32(p[starX]),
			float32(p[starY]),
			float32(p[starDepth]*s.opts.Size),
			render.WithAlpha(s.color, p[starAlpha]*s.opacity),
		)
	})
}
