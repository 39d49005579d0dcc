package render

import (
	"image/color"
	"sync"
)

// OpKind identifies a recorded drawing call
type OpKind int

const (
	OpClear OpKind = iota
	OpRect
	OpCircle
	OpGlyph
	OpGradient
)

// Op is one drawing call captured by a Recorder
type Op struct {
	Kind       OpKind
	X, Y, W, H float32
	R          float32
	Glyph      rune
	Color      color.NRGBA
}

// Recorder is a Surface that records every call instead of drawing.
// It is safe for use from a tick goroutine while a test inspects it.
type Recorder struct {
	mu        sync.Mutex
	width     int
	height    int
	ops       []Op
	disposed  int
	presented int
}

var (
	_ Surface   = (*Recorder)(nil)
	_ Presenter = (*Recorder)(nil)
	_ Resizer   = (*Recorder)(nil)
)

// NewRecorder creates a recording surface of the given size
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Resize changes the reported size
func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
}

func (r *Recorder) Clear(c color.NRGBA) {
	r.record(Op{Kind: OpClear, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float32, c color.NRGBA) {
	r.record(Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) FillCircle(cx, cy, radius float32, c color.NRGBA) {
	r.record(Op{Kind: OpCircle, X: cx, Y: cy, R: radius, Color: c})
}

func (r *Recorder) DrawGlyph(g rune, x, y float32, c color.NRGBA) {
	r.record(Op{Kind: OpGlyph, X: x, Y: y, Glyph: g, Color: c})
}

func (r *Recorder) FillRadialGradient(cx, cy, radius float32, c color.NRGBA) {
	r.record(Op{Kind: OpGradient, X: cx, Y: cy, R: radius, Color: c})
}

func (r *Recorder) Dispose() {
	r.mu.Lock()
	r.disposed++
	r.mu.Unlock()
}

// Present counts a finished frame
func (r *Recorder) Present() {
	r.mu.Lock()
	r.presented++
	r.mu.Unlock()
}

// Ops returns a copy of the recorded calls
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns how many calls of kind were recorded
func (r *Recorder) Count(kind OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops the recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// Presented returns the number of Present calls
func (r *Recorder) Presented() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presented
}

// Disposed returns the number of Dispose calls
func (r *Recorder) Disposed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}
