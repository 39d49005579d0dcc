package effect

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/particle"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

const (
	rainCursor = iota
	// rainGlyph is the charset index drawn this tick, or -1
	rainGlyph
	rainStride
)

// Rain drops one glyph cursor per column. A cursor that runs off the bottom
// parks just below the surface until a random restart, which staggers the
// columns.
type Rain struct {
	core
	opts       config.RainOptions
	glyphs     []rune
	background color.NRGBA
	color      color.NRGBA
	opacity    float64
}

func NewRain(opts config.RainOptions, pal config.Palette, rng *rand.Rand) (*Rain, error) {
	c, err := config.Resolve(opts.Color, pal.Rain)
	if err != nil {
		return nil, err
	}
	return &Rain{
		core:       core{rng: rng},
		opts:       opts,
		glyphs:     []rune(opts.Charset),
		background: pal.Background,
		color:      c,
		opacity:    pal.Opacity,
	}, nil
}

func (r *Rain) Name() string { return config.EffectRain }

// Columns returns floor(width / fontSize) for d
func (r *Rain) Columns(d Dimensions) int {
	if d.Width <= 0 || r.opts.FontSize <= 0 {
		return 0
	}
	return int(math.Floor(d.Width / r.opts.FontSize))
}

// parked is where an expired cursor waits for its restart
func (r *Rain) parked() float64 {
	return r.dims.Height + r.opts.FontSize
}

func (r *Rain) seed(_ int, p []float64) {
	p[rainCursor] = particle.Uniform(r.rng, 0, r.dims.Height)
	p[rainGlyph] = -1
}

// Resize sets the column count to floor(width / fontSize). Existing columns
// keep their cursors; only new columns are seeded.
func (r *Rain) Resize(d Dimensions) {
	if !d.Valid() {
		return
	}
	r.dims = d
	cols := r.Columns(d)
	if r.buf == nil {
		r.buf = particle.Init(cols, rainStride, r.seed)
		return
	}
	r.buf.Resize(cols, r.seed)

	limit := r.parked()
	r.buf.Each(func(_ int, p []float64) {
		if p[rainCursor] > limit {
			p[rainCursor] = limit
		}
	})
}

func (r *Rain) Update(Signal) {
	if r.buf == nil {
		return
	}
	h := r.dims.Height
	step := r.opts.FontSize * r.opts.Speed
	r.buf.Each(func(_ int, p []float64) {
		c := p[rainCursor]
		if c > h {
			c = r.parked()
			if r.rng.Float64() < r.opts.ResetChance {
				c = 0
			}
		} else {
			c += step
			if c > h {
				c = r.parked()
			}
		}
		p[rainCursor] = c

		p[rainGlyph] = -1
		if c <= h && len(r.glyphs) > 0 && r.rng.Float64() < r.opts.Density {
			p[rainGlyph] = float64(r.rng.Intn(len(r.glyphs)))
		}
	})
}

func (r *Rain) Draw(surf render.Surface) {
	background(surf, r.dims, r.background, r.opts.Trail)
	if r.buf == nil {
		return
	}
	c := render.WithAlpha(r.color, r.opacity)
	r.buf.Each(func(i int, p []float64) {
		g := int(p[rainGlyph])
		if g < 0 || g >= len(r.glyphs) {
			return
		}
		surf.DrawGlyph(r.glyphs[g], float32(float64(i)*r.opts.FontSize), float32(p[rainCursor]), c)
	})
}
