package particle

import (
	"math"
	"math/rand"
)

// SeedFunc fills a freshly allocated record. i is the record index.
type SeedFunc func(i int, p []float64)

// Buffer is a flat array of per-particle attributes. Record i occupies
// data[i*stride : (i+1)*stride]. Insertion order is render order.
type Buffer struct {
	data   []float64
	stride int
}

// New allocates a zeroed buffer holding capacity records of stride values each
func New(capacity, stride int) *Buffer {
	if stride < 1 {
		stride = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{
		data:   make([]float64, capacity*stride),
		stride: stride,
	}
}

// Init allocates capacity records and seeds each one
func Init(capacity, stride int, seed SeedFunc) *Buffer {
	b := New(capacity, stride)
	for i := 0; i < b.Len(); i++ {
		seed(i, b.At(i))
	}
	return b
}

// Len returns the number of records
func (b *Buffer) Len() int {
	return len(b.data) / b.stride
}

// Stride returns the number of values per record
func (b *Buffer) Stride() int {
	return b.stride
}

// At returns a view of record i. Writes go straight to the buffer.
func (b *Buffer) At(i int) []float64 {
	off := i * b.stride
	return b.data[off : off+b.stride : off+b.stride]
}

// Each calls fn for every record in render order
func (b *Buffer) Each(fn func(i int, p []float64)) {
	for i, n := 0, b.Len(); i < n; i++ {
		fn(i, b.At(i))
	}
}

// Resize changes the record count to n. Existing records up to min(n, Len())
// are kept as they are; only the new tail is seeded.
func (b *Buffer) Resize(n int, seed SeedFunc) {
	if n < 0 {
		n = 0
	}
	old := b.Len()
	if n == old {
		return
	}
	if n < old {
		b.data = b.data[:n*b.stride]
		return
	}

	grown := make([]float64, n*b.stride)
	copy(grown, b.data)
	b.data = grown
	for i := old; i < n; i++ {
		seed(i, b.At(i))
	}
}

// Reseed runs seed over every record
func (b *Buffer) Reseed(seed SeedFunc) {
	b.Each(seed)
}

// Release drops the backing array
func (b *Buffer) Release() {
	b.data = nil
}

// Uniform draws from [lo, hi)
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Reflect keeps v inside [lo, hi]. When v leaves the range it is clamped and
// the returned velocity has its sign flipped to point back inside.
func Reflect(v, vel, lo, hi float64) (float64, float64) {
	if v < lo {
		return lo, math.Abs(vel)
	}
	if v > hi {
		return hi, -math.Abs(vel)
	}
	return v, vel
}

// Wrap maps v onto [0, extent) toroidally
func Wrap(v, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	v = math.Mod(v, extent)
	if v < 0 {
		v += extent
	}
	// math.Mod of a tiny negative can round up to extent
	if v >= extent {
		v = 0
	}
	return v
}
