// Package screen hosts a scene in an ebiten window.
package screen

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/olivierh59500/backdrop-go/internal/render"
)

// spriteSize is the side of the prebuilt radial gradient
const spriteSize = 256

var (
	_ render.Surface = (*Canvas)(nil)
	_ render.Resizer = (*Canvas)(nil)
)

// Canvas is a Surface over an offscreen ebiten image. The image persists
// between frames so translucent background passes leave trails; the game
// blits it to the window in Draw.
type Canvas struct {
	img    *ebiten.Image
	sprite *ebiten.Image
	face   font.Face
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img:    ebiten.NewImage(width, height),
		sprite: ebiten.NewImageFromImage(gradientSprite(spriteSize)),
		face:   basicfont.Face7x13,
	}
}

// gradientSprite renders white fading linearly from opaque at the centre to
// transparent at the rim, premultiplied
func gradientSprite(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r)
			a := uint8(255 * render.Clamp01(1-d/r))
			img.SetRGBA(x, y, color.RGBA{a, a, a, a})
		}
	}
	return img
}

// Image returns the backing image, or nil once disposed
func (c *Canvas) Image() *ebiten.Image { return c.img }

func (c *Canvas) Size() (int, int) {
	if c.img == nil {
		return 0, 0
	}
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize swaps in a blank image of the new size
func (c *Canvas) Resize(width, height int) {
	if c.img == nil {
		return
	}
	if w, h := c.Size(); w == width && h == height {
		return
	}
	c.img.Deallocate()
	c.img = ebiten.NewImage(width, height)
}

func (c *Canvas) Clear(col color.NRGBA) {
	if c.img == nil {
		return
	}
	c.img.Fill(col)
}

func (c *Canvas) FillRect(x, y, w, h float32, col color.NRGBA) {
	if c.img == nil {
		return
	}
	vector.DrawFilledRect(c.img, x, y, w, h, col, false)
}

func (c *Canvas) FillCircle(cx, cy, r float32, col color.NRGBA) {
	if c.img == nil {
		return
	}
	vector.DrawFilledCircle(c.img, cx, cy, r, col, true)
}

// DrawGlyph draws g with the bitmap face. Runes the face lacks fold onto
// its printable ASCII range so every column still shows something.
func (c *Canvas) DrawGlyph(g rune, x, y float32, col color.NRGBA) {
	if c.img == nil {
		return
	}
	if _, ok := c.face.GlyphAdvance(g); !ok {
		g = '!' + g%('~'-'!')
	}
	text.Draw(c.img, string(g), c.face, int(x), int(y)+c.face.Metrics().Ascent.Round(), col)
}

func (c *Canvas) FillRadialGradient(cx, cy, r float32, col color.NRGBA) {
	if c.img == nil || r <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := float64(2*r) / spriteSize
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(cx-r), float64(cy-r))
	op.ColorScale.ScaleWithColor(col)
	op.Filter = ebiten.FilterLinear
	c.img.DrawImage(c.sprite, op)
}

func (c *Canvas) Dispose() {
	if c.img == nil {
		return
	}
	c.img.Deallocate()
	c.sprite.Deallocate()
	c.img, c.sprite = nil, nil
}
