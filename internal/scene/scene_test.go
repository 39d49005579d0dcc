package scene

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/effect"
	"github.com/olivierh59500/backdrop-go/internal/frame"
	"github.com/olivierh59500/backdrop-go/internal/render"
)

func newEffect(t *testing.T, name string) effect.Effect {
	t.Helper()
	cfg := config.Default()
	cfg.Effect = name
	cfg.Warp.Count = 200
	cfg.Drift.Count = 200
	e, err := effect.New(cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func fixed(rec *render.Recorder) AcquireFunc {
	return func() (render.Surface, error) { return rec, nil }
}

func quiet() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNoDrawAfterUnmount(t *testing.T) {
	interval := 2 * time.Millisecond
	rec := render.NewRecorder(320, 240)
	s := New(newEffect(t, config.EffectStarfield), frame.NewLoop(interval, nil), fixed(rec), Options{Logger: quiet()})

	s.Mount()
	waitFor(t, func() bool { return s.Ticks() >= 3 })
	s.Unmount()

	rec.Reset()
	time.Sleep(10 * interval)
	if n := len(rec.Ops()); n != 0 {
		t.Fatalf("%d draw calls after Unmount", n)
	}
	if rec.Disposed() != 1 {
		t.Fatalf("surface disposed %d times, want 1", rec.Disposed())
	}
	if s.Mounted() {
		t.Fatal("Mounted() true after Unmount")
	}
}

func TestRemountDisposesOncePerCycle(t *testing.T) {
	var surfaces []*render.Recorder
	acquire := func() (render.Surface, error) {
		rec := render.NewRecorder(200, 100)
		surfaces = append(surfaces, rec)
		return rec, nil
	}
	pump := frame.NewPump(nil)
	s := New(newEffect(t, config.EffectRain), pump, acquire, Options{Logger: quiet()})

	s.Unmount() // before any Mount
	for cycle := 0; cycle < 5; cycle++ {
		s.Mount()
		s.Mount()
		for i := 0; i < 3; i++ {
			pump.Step()
		}
		if got := s.Effect().Len(); got != 200/14 {
			t.Fatalf("cycle %d: %d columns after remount", cycle, got)
		}
		s.Unmount()
		s.Unmount()
		pump.Step()
	}

	if len(surfaces) != 5 {
		t.Fatalf("acquired %d surfaces over 5 cycles", len(surfaces))
	}
	for i, rec := range surfaces {
		if rec.Disposed() != 1 {
			t.Errorf("surface %d disposed %d times", i, rec.Disposed())
		}
		if rec.Presented() != 3 {
			t.Errorf("surface %d presented %d frames, want 3", i, rec.Presented())
		}
	}
	if s.Effect().Len() != 0 {
		t.Fatalf("buffer still holds %d records after Unmount", s.Effect().Len())
	}
}

func TestDeferredSurfaceAcquisition(t *testing.T) {
	rec := render.NewRecorder(320, 240)
	attempts := 0
	acquire := func() (render.Surface, error) {
		attempts++
		if attempts <= 3 {
			return nil, fmt.Errorf("canvas: %w", render.ErrSurfaceUnavailable)
		}
		return rec, nil
	}
	var logs bytes.Buffer
	pump := frame.NewPump(nil)
	s := New(newEffect(t, config.EffectMesh), pump, acquire, Options{Logger: log.New(&logs, "", 0)})
	s.Mount()
	defer s.Unmount()

	for i := 0; i < 3; i++ {
		pump.Step()
	}
	if s.Ticks() != 0 || len(rec.Ops()) != 0 {
		t.Fatalf("drew while the surface was unavailable: ticks=%d ops=%d", s.Ticks(), len(rec.Ops()))
	}
	if n := strings.Count(logs.String(), "\n"); n != 1 {
		t.Fatalf("logged %d lines for an unavailable surface, want 1:\n%s", n, logs.String())
	}

	pump.Step()
	if s.Ticks() != 1 {
		t.Fatalf("ticks = %d once the surface appeared", s.Ticks())
	}
	if rec.Count(render.OpGradient) == 0 {
		t.Fatal("mesh drew no gradients")
	}
}

func TestResizeDuringRun(t *testing.T) {
	rec := render.NewRecorder(640, 480)
	pump := frame.NewPump(nil)
	s := New(newEffect(t, config.EffectRain), pump, fixed(rec), Options{Logger: quiet()})
	s.Mount()
	defer s.Unmount()

	pump.Step()
	if got := s.Effect().Len(); got != 640/14 {
		t.Fatalf("initial columns = %d", got)
	}

	s.Resize(1400, 480)
	if got := s.Effect().Len(); got != 640/14 {
		t.Fatal("resize applied outside the tick context")
	}
	pump.Step()
	if got := s.Effect().Len(); got != 100 {
		t.Fatalf("columns after resize = %d, want 100", got)
	}
	if w, h := rec.Size(); w != 1400 || h != 480 {
		t.Fatalf("surface size %dx%d after resize", w, h)
	}

	s.Resize(0, 480)
	s.Resize(800, -1)
	pump.Step()
	if got := s.Effect().Len(); got != 100 {
		t.Fatalf("non-positive resize changed columns to %d", got)
	}
}

func TestResizeKeepsFixedCounts(t *testing.T) {
	for _, name := range []string{config.EffectStarfield, config.EffectWarp, config.EffectMesh, config.EffectDrift} {
		t.Run(name, func(t *testing.T) {
			pump := frame.NewPump(nil)
			s := New(newEffect(t, name), pump, fixed(render.NewRecorder(640, 480)), Options{Logger: quiet()})
			s.Mount()
			defer s.Unmount()

			pump.Step()
			before := s.Effect().Len()
			for _, size := range [][2]int{{1920, 1080}, {320, 200}, {1, 1}} {
				s.Resize(size[0], size[1])
				pump.Step()
				if got := s.Effect().Len(); got != before {
					t.Fatalf("resize to %v changed count %d -> %d", size, before, got)
				}
			}
		})
	}
}

func TestScrollSampledEachTick(t *testing.T) {
	scroll := 100.0
	pump := frame.NewPump(nil)
	s := New(newEffect(t, config.EffectWarp), pump, fixed(render.NewRecorder(400, 300)), Options{
		Scroll: func() float64 { return scroll },
		Logger: quiet(),
	})
	s.Mount()
	defer s.Unmount()

	w := s.Effect().(*effect.Warp)
	opts := config.Default().Warp

	pump.Step()
	if want := opts.Speed + 100*opts.ScrollFactor; w.Speed() != want {
		t.Fatalf("speed = %v, want %v", w.Speed(), want)
	}

	scroll = -40
	pump.Step()
	if w.Speed() != opts.Speed {
		t.Fatalf("negative scroll gave speed %v, want %v", w.Speed(), opts.Speed)
	}
}

// edgeMarker draws one glyph in the rightmost column of its surface
type edgeMarker struct {
	dims effect.Dimensions
}

func (m *edgeMarker) Name() string               { return "edge" }
func (m *edgeMarker) Resize(d effect.Dimensions) { m.dims = d }
func (m *edgeMarker) Update(effect.Signal)       {}
func (m *edgeMarker) Len() int                   { return 1 }
func (m *edgeMarker) Release()                   {}
func (m *edgeMarker) Draw(surf render.Surface) {
	surf.Clear(color.NRGBA{A: 255})
	surf.DrawGlyph('X', float32(m.dims.Width-1), 0, color.NRGBA{G: 255, A: 255})
}

func TestTerminalFollowsResize(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(10, 5)
	term := render.NewTerminal(screen)

	pump := frame.NewPump(nil)
	s := New(&edgeMarker{}, pump, func() (render.Surface, error) { return term, nil }, Options{Logger: quiet()})
	s.Mount()
	defer s.Unmount()

	pump.Step()
	if r, _, _, _ := screen.GetContent(9, 0); r != 'X' {
		t.Fatalf("cell (9,0) = %q before resize, want X", r)
	}

	screen.SetSize(20, 5)
	s.Resize(20, 5)
	pump.Step()
	if w, h := term.Size(); w != 20 || h != 5 {
		t.Fatalf("terminal %dx%d after resize, want 20x5", w, h)
	}
	if r, _, _, _ := screen.GetContent(19, 0); r != 'X' {
		t.Fatalf("cell (19,0) = %q after resize, want X", r)
	}
}

func TestStaleResizeDroppedAfterRemount(t *testing.T) {
	pump := frame.NewPump(nil)
	old := New(newEffect(t, config.EffectRain), pump, fixed(render.NewRecorder(280, 100)), Options{Logger: quiet()})
	old.Mount()
	pump.Step()

	// A resize posted in the same frame as the remount
	old.Resize(560, 100)
	old.Unmount()

	next := New(newEffect(t, config.EffectStarfield), pump, fixed(render.NewRecorder(280, 100)), Options{Logger: quiet()})
	next.Mount()
	defer next.Unmount()
	pump.Step()

	if n := old.Effect().Len(); n != 0 {
		t.Fatalf("unmounted effect reseeded %d records", n)
	}
	if next.Ticks() != 1 {
		t.Fatalf("new scene ticks = %d, want 1", next.Ticks())
	}
}

func TestResizeWhileUnmountedAppliesOnMount(t *testing.T) {
	rec := render.NewRecorder(280, 100)
	pump := frame.NewPump(nil)
	s := New(newEffect(t, config.EffectRain), pump, fixed(rec), Options{Logger: quiet()})

	s.Resize(560, 100)
	s.Mount()
	defer s.Unmount()
	pump.Step()
	if got := s.Effect().Len(); got != 40 {
		t.Fatalf("columns = %d, want 40 from the pending resize", got)
	}
}
