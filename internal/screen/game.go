package screen

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/effect"
	"github.com/olivierh59500/backdrop-go/internal/frame"
	"github.com/olivierh59500/backdrop-go/internal/render"
	"github.com/olivierh59500/backdrop-go/internal/scene"
)

// scrollStep is the scroll offset one wheel notch adds
const scrollStep = 40.0

var effectKeys = []ebiten.Key{
	ebiten.KeyDigit1,
	ebiten.KeyDigit2,
	ebiten.KeyDigit3,
	ebiten.KeyDigit4,
	ebiten.KeyDigit5,
}

// Game runs one scene at a time in the window. The scene's ticks are pumped
// from Update; Draw only blits the finished frame and the HUD.
type Game struct {
	cfg   config.Config
	prefs *config.Prefs
	log   *log.Logger
	rng   *rand.Rand

	pump   *frame.Pump
	scene  *scene.Scene
	canvas *Canvas

	width, height int
	scroll        float64
	showHUD       bool
}

// NewGame mounts the effect cfg names. prefs supplies the language and is
// written back when the theme or language changes.
func NewGame(cfg config.Config, prefs *config.Prefs, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:     cfg,
		prefs:   prefs,
		log:     logger,
		rng:     rand.New(rand.NewSource(seed)),
		pump:    frame.NewPump(nil),
		showHUD: true,
	}
	if err := g.mount(); err != nil {
		return nil, err
	}
	return g, nil
}

// acquire hands the scene a canvas once the window has reported a size
func (g *Game) acquire() (render.Surface, error) {
	if g.width <= 0 || g.height <= 0 {
		return nil, render.ErrSurfaceUnavailable
	}
	g.canvas = NewCanvas(g.width, g.height)
	return g.canvas, nil
}

func (g *Game) mount() error {
	e, err := effect.New(g.cfg, g.rng)
	if err != nil {
		return fmt.Errorf("mount %s: %w", g.cfg.Effect, err)
	}
	g.scene = scene.New(e, g.pump, g.acquire, scene.Options{
		Scroll:     func() float64 { return g.scroll },
		PixelRatio: pixelRatio,
		Logger:     g.log,
	})
	g.scene.Mount()
	return nil
}

func pixelRatio() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// remount tears the running scene down and mounts cfg in its place
func (g *Game) remount(cfg config.Config) error {
	g.scene.Unmount()
	g.canvas = nil
	g.cfg = cfg
	return g.mount()
}

// Close unmounts the scene
func (g *Game) Close() {
	g.scene.Unmount()
	g.canvas = nil
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	g.pump.Step()
	return nil
}

// handleInput processes keyboard and mouse input
func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	for i, key := range effectKeys {
		if inpututil.IsKeyJustPressed(key) && g.cfg.Effect != config.Effects[i] {
			cfg := g.cfg
			cfg.Effect = config.Effects[i]
			if err := g.remount(cfg); err != nil {
				return err
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		cfg := g.cfg
		cfg.Theme = cfg.Theme.Toggle()
		if err := g.prefs.SetTheme(cfg.Theme); err != nil {
			g.log.Printf("save theme: %v", err)
		}
		if err := g.remount(cfg); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		if err := g.prefs.SetLanguage(config.NextLanguage(g.prefs.Language())); err != nil {
			g.log.Printf("save language: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Wheel down scrolls the page down
	_, wheelY := ebiten.Wheel()
	g.scroll = math.Max(g.scroll-wheelY*scrollStep, 0)
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.scroll = 0
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas != nil && g.canvas.Image() != nil {
		screen.DrawImage(g.canvas.Image(), nil)
	}
	if !g.showHUD {
		return
	}

	lang := g.prefs.Language()
	status := fmt.Sprintf("%s | %s: %s | %s: %.0f | %d particles | %.0f FPS",
		config.Label(lang, g.cfg.Effect),
		config.Label(lang, "theme"), g.cfg.Theme,
		config.Label(lang, "scroll"), g.scroll,
		g.scene.Effect().Len(),
		ebiten.ActualFPS(),
	)
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
	ebitenutil.DebugPrintAt(screen, config.Label(lang, "help"), 12, 28)
}

// Layout follows the window size and resizes the scene when it changes
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.scene.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
