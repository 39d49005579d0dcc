package render

import (
	"image/color"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// blankThreshold is the squared RGB distance below which a glyph has faded
// into its background and the cell is shown empty
const blankThreshold = 24 * 24

type rgb struct{ r, g, b float64 }

func toRGB(c color.NRGBA) rgb {
	return rgb{float64(c.R), float64(c.G), float64(c.B)}
}

func (c rgb) blend(o color.NRGBA, a float64) rgb {
	return rgb{
		r: c.r*(1-a) + float64(o.R)*a,
		g: c.g*(1-a) + float64(o.G)*a,
		b: c.b*(1-a) + float64(o.B)*a,
	}
}

func (c rgb) dist2(o rgb) float64 {
	dr, dg, db := c.r-o.r, c.g-o.g, c.b-o.b
	return dr*dr + dg*dg + db*db
}

func (c rgb) tcell() tcell.Color {
	return tcell.NewRGBColor(int32(c.r), int32(c.g), int32(c.b))
}

type cell struct {
	ch rune
	fg rgb
	bg rgb
}

// Terminal is a Surface over a tcell screen. One surface unit is one cell.
// Cells keep their colours between frames so a translucent FillRect fades
// earlier glyphs the way a canvas trail pass does.
type Terminal struct {
	screen tcell.Screen
	width  int
	height int
	cells  []cell

	disposeOnce sync.Once
	disposed    bool
}

var (
	_ Surface   = (*Terminal)(nil)
	_ Presenter = (*Terminal)(nil)
	_ Resizer   = (*Terminal)(nil)
)

// NewTerminal wraps an initialised tcell screen
func NewTerminal(screen tcell.Screen) *Terminal {
	t := &Terminal{screen: screen}
	t.sync()
	return t
}

// sync reallocates the cell buffer when the screen size changed
func (t *Terminal) sync() {
	w, h := t.screen.Size()
	t.Resize(w, h)
}

// Resize reallocates the cell buffer for a width x height grid. Cells start
// blank; the next frame repaints them.
func (t *Terminal) Resize(width, height int) {
	if t.disposed || width < 0 || height < 0 {
		return
	}
	if width == t.width && height == t.height && t.cells != nil {
		return
	}
	t.width, t.height = width, height
	t.cells = make([]cell, width*height)
	for i := range t.cells {
		t.cells[i].ch = ' '
	}
}

func (t *Terminal) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return nil
	}
	return &t.cells[y*t.width+x]
}

func (t *Terminal) Size() (int, int) {
	t.sync()
	return t.width, t.height
}

func (t *Terminal) Clear(c color.NRGBA) {
	bg := toRGB(c)
	for i := range t.cells {
		t.cells[i] = cell{ch: ' ', fg: bg, bg: bg}
	}
}

func (t *Terminal) FillRect(x, y, w, h float32, c color.NRGBA) {
	a := float64(c.A) / 255
	x0, y0 := int(math.Floor(float64(x))), int(math.Floor(float64(y)))
	x1, y1 := int(math.Ceil(float64(x+w))), int(math.Ceil(float64(y+h)))
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			ce := t.at(cx, cy)
			if ce == nil {
				continue
			}
			ce.bg = ce.bg.blend(c, a)
			ce.fg = ce.fg.blend(c, a)
			if ce.fg.dist2(ce.bg) < blankThreshold {
				ce.ch = ' '
			}
		}
	}
}

func (t *Terminal) FillCircle(cx, cy, r float32, c color.NRGBA) {
	ce := t.at(int(math.Round(float64(cx))), int(math.Round(float64(cy))))
	if ce == nil {
		return
	}
	switch {
	case r < 1:
		ce.ch = '·'
	case r < 2:
		ce.ch = '•'
	default:
		ce.ch = '●'
	}
	ce.fg = ce.bg.blend(c, float64(c.A)/255)
}

func (t *Terminal) DrawGlyph(g rune, x, y float32, c color.NRGBA) {
	ce := t.at(int(math.Floor(float64(x))), int(math.Floor(float64(y))))
	if ce == nil {
		return
	}
	ce.ch = g
	ce.fg = ce.bg.blend(c, float64(c.A)/255)
}

func (t *Terminal) FillRadialGradient(cx, cy, r float32, c color.NRGBA) {
	if r <= 0 {
		return
	}
	a := float64(c.A) / 255
	rr := float64(r)
	x0, x1 := int(math.Floor(float64(cx)-rr)), int(math.Ceil(float64(cx)+rr))
	y0, y1 := int(math.Floor(float64(cy)-rr)), int(math.Ceil(float64(cy)+rr))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			ce := t.at(x, y)
			if ce == nil {
				continue
			}
			d := math.Hypot(float64(x)-float64(cx), float64(y)-float64(cy))
			if d >= rr {
				continue
			}
			k := a * (1 - d/rr)
			ce.bg = ce.bg.blend(c, k)
			ce.fg = ce.fg.blend(c, k)
		}
	}
}

// Present copies the cell buffer to the screen
func (t *Terminal) Present() {
	if t.disposed {
		return
	}
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			ce := t.cells[y*t.width+x]
			style := tcell.StyleDefault.Foreground(ce.fg.tcell()).Background(ce.bg.tcell())
			t.screen.SetContent(x, y, ce.ch, nil, style)
		}
	}
	t.screen.Show()
}

// Dispose restores the terminal. Safe to call more than once.
func (t *Terminal) Dispose() {
	t.disposeOnce.Do(func() {
		t.screen.Fini()
		t.disposed = true
		t.cells = nil
		t.width, t.height = 0, 0
	})
}
