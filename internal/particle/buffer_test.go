package particle

import (
	"math/rand"
	"testing"
)

func TestInitSeedsEveryRecord(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := Init(100, 3, func(i int, p []float64) {
		p[0] = Uniform(rng, 0, 640)
		p[1] = Uniform(rng, 0, 480)
		p[2] = float64(i)
	})

	if b.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", b.Len())
	}
	b.Each(func(i int, p []float64) {
		if p[0] < 0 || p[0] >= 640 || p[1] < 0 || p[1] >= 480 {
			t.Errorf("record %d out of range: %v", i, p)
		}
		if p[2] != float64(i) {
			t.Errorf("record %d seeded with index %v", i, p[2])
		}
	})
}

func TestAtIsAView(t *testing.T) {
	b := New(4, 2)
	b.At(2)[1] = 7
	if got := b.At(2)[1]; got != 7 {
		t.Fatalf("write through view lost: got %v", got)
	}
	if cap(b.At(1)) != 2 {
		t.Fatalf("view capacity leaks into next record: cap=%d", cap(b.At(1)))
	}
}

func TestResizeSeedsOnlyDelta(t *testing.T) {
	b := Init(3, 1, func(i int, p []float64) { p[0] = 1 })

	seeded := 0
	b.Resize(5, func(i int, p []float64) {
		seeded++
		p[0] = 2
	})
	if seeded != 2 {
		t.Fatalf("seeded %d records, want 2", seeded)
	}
	want := []float64{1, 1, 1, 2, 2}
	for i, w := range want {
		if got := b.At(i)[0]; got != w {
			t.Errorf("record %d = %v, want %v", i, got, w)
		}
	}

	b.Resize(2, func(int, []float64) { t.Fatal("shrink must not seed") })
	if b.Len() != 2 {
		t.Fatalf("Len() after shrink = %d, want 2", b.Len())
	}
}

func TestRelease(t *testing.T) {
	b := New(10, 4)
	b.Release()
	if b.Len() != 0 {
		t.Fatalf("Len() after Release = %d", b.Len())
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name           string
		v, vel         float64
		wantV, wantVel float64
	}{
		{"inside", 0.5, 0.1, 0.5, 0.1},
		{"below", -0.1, -0.2, 0, 0.2},
		{"above", 1.3, 0.2, 1, -0.2},
		{"above already turning", 1.3, -0.2, 1, -0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, vel := Reflect(tt.v, tt.vel, 0, 1)
			if v != tt.wantV || vel != tt.wantVel {
				t.Errorf("Reflect(%v, %v) = (%v, %v), want (%v, %v)", tt.v, tt.vel, v, vel, tt.wantV, tt.wantVel)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, extent, want float64
	}{
		{5, 10, 5},
		{12, 10, 2},
		{-3, 10, 7},
		{10, 10, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.v, tt.extent); got != tt.want {
			t.Errorf("Wrap(%v, %v) = %v, want %v", tt.v, tt.extent, got, tt.want)
		}
	}
}
