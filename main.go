package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/backdrop-go/internal/config"
	"github.com/olivierh59500/backdrop-go/internal/screen"
)

func main() {
	configPath := flag.String("config", "config.json", "path to a JSON config file")
	prefsPath := flag.String("prefs", "", "path to the preferences file (default: user config dir)")
	effectName := flag.String("effect", "", "effect to show: starfield, rain, warp, mesh or drift")
	themeName := flag.String("theme", "", "colour theme: dark or light")
	width := flag.Int("width", 0, "window width")
	height := flag.Int("height", 0, "window height")
	tps := flag.Int("tps", 0, "ticks per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
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
	if *effectName != "" {
		cfg.Effect = *effectName
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *tps > 0 {
		cfg.TPS = *tps
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	game, err := screen.NewGame(cfg, prefs, log.Default())
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Backdrop")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
