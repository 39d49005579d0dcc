// Package render defines the drawing surface effects paint onto, plus the
// terminal implementation and a recording surface used by tests.
package render

import (
	"errors"
	"image/color"
)

// ErrSurfaceUnavailable reports that the host has no drawing target yet
var ErrSurfaceUnavailable = errors.New("render: surface unavailable")

// Surface is a 2D drawing target. Coordinates are in surface units with the
// origin at the top left. Colors are non-premultiplied.
type Surface interface {
	Size() (width, height int)
	// Clear replaces every pixel with c
	Clear(c color.NRGBA)
	// FillRect blends c over the rectangle
	FillRect(x, y, w, h float32, c color.NRGBA)
	FillCircle(cx, cy, r float32, c color.NRGBA)
	// DrawGlyph draws g with its top-left corner at (x, y)
	DrawGlyph(g rune, x, y float32, c color.NRGBA)
	// FillRadialGradient fades from c at the centre to transparent at r
	FillRadialGradient(cx, cy, r float32, c color.NRGBA)
	// Dispose releases native resources. The surface is unusable afterwards.
	Dispose()
}

// Presenter is implemented by surfaces that buffer a frame and need an
// explicit flush once drawing is done
type Presenter interface {
	Present()
}

// Resizer is implemented by surfaces whose backing store is sized by the
// scene rather than by the host
type Resizer interface {
	Resize(width, height int)
}
