// Command backdrop-term runs a backdrop effect in the terminal, one cell per
// surface unit.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/effect"
	"github.com/olivierh59500/backdrop-go/internal/frame"
	"github.com/olivierh59500/backdrop-go/internal/render"
	"github.com/olivierh59500/backdrop-go/internal/scene"
)

// scrollStep is the scroll offset one arrow key press adds
const scrollStep = 40

func main() {
	configPath := flag.String("config", "config.json", "path to a JSON config file")
	prefsPath := flag.String("prefs", "", "path to the preferences file (default: user config dir)")
	effectName := flag.String("effect", "", "effect to show: starfield, rain, warp, mesh or drift")
	themeName := flag.String("theme", "", "colour theme: dark or light")
	tps := flag.Int("tps", 30, "ticks per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *effectName != "" {
		cfg.Effect = *effectName
	}

	if *prefsPath == "" {
		if *prefsPath, err = config.DefaultPrefsPath(); err != nil {
			log.Printf("preferences disabled: %v", err)
		}
	}
	prefs, err := config.LoadPrefs(*prefsPath)
	if err != nil {
		log.Printf("using default preferences: %v", err)
	}
	if cfg.Theme, err = config.PickTheme(cfg.Theme, prefs, *themeName); err != nil {
		log.Fatal(err)
	}
	if *tps > 0 {
		cfg.TPS = *tps
	}
	cfg = cellScale(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e, err := effect.New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	surface := render.NewTerminal(screen)

	var scroll atomic.Int64
	loop := frame.NewLoop(time.Second/time.Duration(cfg.TPS), nil)
	sc := scene.New(e, loop, func() (render.Surface, error) { return surface, nil }, scene.Options{
		Scroll: func() float64 { return float64(scroll.Load()) },
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc.Mount()
	go pollEvents(screen, sc, &scroll, stop)

	<-ctx.Done()
	sc.Unmount()
}

// pollEvents forwards resizes to the scene and cancels on a quit key. It
// returns once the screen is finalized.
func pollEvents(screen tcell.Screen, sc *scene.Scene, scroll *atomic.Int64, quit context.CancelFunc) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
			sc.Resize(ev.Size())
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				quit()
			case ev.Key() == tcell.KeyDown:
				scroll.Add(scrollStep)
			case ev.Key() == tcell.KeyUp:
				if scroll.Add(-scrollStep) < 0 {
					scroll.Store(0)
				}
			case ev.Key() == tcell.KeyHome:
				scroll.Store(0)
			}
		}
	}
}

// cellScale retunes pixel-sized defaults for a grid of character cells
func cellScale(cfg config.Config) config.Config {
	cfg.Rain.FontSize = 1
	cfg.Starfield.Speed /= 8
	cfg.Starfield.Count /= 4
	cfg.Warp.Count /= 4
	cfg.Drift.Count /= 4
	cfg.Drift.NoiseScale *= 8
	cfg.Drift.MaxSpeed /= 4
	cfg.Drift.Force /= 4
	return cfg
}
