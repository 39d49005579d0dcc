package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Effect names
const (
	EffectStarfield = "starfield"
	EffectRain      = "rain"
	EffectWarp      = "warp"
	EffectMesh      = "mesh"
	EffectDrift     = "drift"
)

// Effects lists every effect in hotkey order
var Effects = []string{EffectStarfield, EffectRain, EffectWarp, EffectMesh, EffectDrift}

const (
	WindowWidth  = 1024
	WindowHeight = 640
	DefaultTPS   = 60
)

// StarfieldOptions tunes the drifting, twinkling starfield
type StarfieldOptions struct {
	Count        int     `json:"count"`
	Speed        float64 `json:"speed"`
	TwinkleSpeed float64 `json:"twinkleSpeed"`
	Size         float64 `json:"size"`
	Trail        float64 `json:"trail"`
	Color        string  `json:"color,omitempty"`
}

// RainOptions tunes the digital rain columns
type RainOptions struct {
	FontSize    float64 `json:"fontSize"`
	Speed       float64 `json:"speed"`
	Density     float64 `json:"density"`
	ResetChance float64 `json:"resetChance"`
	Trail       float64 `json:"trail"`
	Charset     string  `json:"charset"`
	Color       string  `json:"color,omitempty"`
}

// WarpOptions tunes the warp tunnel
type WarpOptions struct {
	Count        int     `json:"count"`
	Speed        float64 `json:"speed"`
	ScrollFactor float64 `json:"scrollFactor"`
	ScrollCap    float64 `json:"scrollCap"`
	Depth        float64 `json:"depth"`
	Spread       float64 `json:"spread"`
	Size         float64 `json:"size"`
	Trail        float64 `json:"trail"`
	Color        string  `json:"color,omitempty"`
	SurgeColor   string  `json:"surgeColor,omitempty"`
}

// MeshOptions tunes the mesh-gradient blobs
type MeshOptions struct {
	Blobs     int      `json:"blobs"`
	Speed     float64  `json:"speed"`
	PulseRate float64  `json:"pulseRate"`
	Radius    float64  `json:"radius"`
	Colors    []string `json:"colors,omitempty"`
}

// DriftOptions tunes the perlin flow-field dust
type DriftOptions struct {
	Count      int     `json:"count"`
	NoiseScale float64 `json:"noiseScale"`
	Force      float64 `json:"force"`
	MaxSpeed   float64 `json:"maxSpeed"`
	Friction   float64 `json:"friction"`
	Size       float64 `json:"size"`
	Trail      float64 `json:"trail"`
}

// Config is everything one mounted effect reads. It is fixed for the
// lifetime of a mount; changing it means remounting.
type Config struct {
	Effect string `json:"effect"`
	Theme  Theme  `json:"theme"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	TPS    int    `json:"tps"`
	// Seed fixes the random source; 0 seeds from the clock
	Seed int64 `json:"seed"`

	Starfield StarfieldOptions `json:"starfield"`
	Rain      RainOptions      `json:"rain"`
	Warp      WarpOptions      `json:"warp"`
	Mesh      MeshOptions      `json:"mesh"`
	Drift     DriftOptions     `json:"drift"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Effect: EffectStarfield,
		Theme:  Dark,
		Width:  WindowWidth,
		Height: WindowHeight,
		TPS:    DefaultTPS,
		Starfield: StarfieldOptions{
			Count:        1000,
			Speed:        0.3,
			TwinkleSpeed: 0.02,
			Size:         0.8,
			Trail:        0,
		},
		Rain: RainOptions{
			FontSize:    14,
			Speed:       0.5,
			Density:     0.9,
			ResetChance: 0.025,
			Trail:       0.06,
			Charset:     "アイウエオカキクケコサシスセソタチツテトナニヌネノ0123456789",
		},
		Warp: WarpOptions{
			Count:        4000,
			Speed:        2,
			ScrollFactor: 0.01,
			ScrollCap:    8,
			Depth:        1000,
			Spread:       600,
			Size:         1.6,
			Trail:        0.25,
		},
		Mesh: MeshOptions{
			Blobs:     4,
			Speed:     0.0008,
			PulseRate: 0.8,
			Radius:    0.45,
		},
		Drift: DriftOptions{
			Count:      3000,
			NoiseScale: 0.004,
			Force:      0.15,
			MaxSpeed:   2.5,
			Friction:   0.05,
			Size:       1.5,
			Trail:      0.12,
		},
	}
}

// Load reads a JSON config file over the defaults. A missing file yields the
// defaults; a malformed or invalid one is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if t, err := ParseTheme(string(cfg.Theme)); err == nil {
		cfg.Theme = t
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func between(name string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s out of range %g-%g (got %g)", name, lo, hi, v)
	}
	return nil
}

// Validate checks ranges and colour strings
func (c Config) Validate() error {
	known := false
	for _, e := range Effects {
		if c.Effect == e {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown effect %q (want one of %s)", c.Effect, strings.Join(Effects, ", "))
	}
	if _, err := ParseTheme(string(c.Theme)); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive (got %dx%d)", c.Width, c.Height)
	}
	if c.TPS < 1 || c.TPS > 240 {
		return fmt.Errorf("tps out of range 1-240 (got %d)", c.TPS)
	}

	checks := []error{
		between("starfield.count", float64(c.Starfield.Count), 1, 20000),
		between("starfield.twinkleSpeed", c.Starfield.TwinkleSpeed, 0.005, 0.4),
		between("starfield.trail", c.Starfield.Trail, 0, 1),
		between("rain.fontSize", c.Rain.FontSize, 1, 128),
		between("rain.density", c.Rain.Density, 0, 1),
		between("rain.resetChance", c.Rain.ResetChance, 0.0001, 1),
		between("rain.trail", c.Rain.Trail, 0, 1),
		between("warp.count", float64(c.Warp.Count), 1, 50000),
		between("warp.scrollCap", c.Warp.ScrollCap, 0, 1000),
		between("warp.depth", c.Warp.Depth, 10, 100000),
		between("warp.trail", c.Warp.Trail, 0, 1),
		between("mesh.blobs", float64(c.Mesh.Blobs), 1, 16),
		between("mesh.radius", c.Mesh.Radius, 0.01, 2),
		between("drift.count", float64(c.Drift.Count), 1, 50000),
		between("drift.friction", c.Drift.Friction, 0, 1),
		between("drift.trail", c.Drift.Trail, 0, 1),
	}
	if err := errors.Join(checks...); err != nil {
		return err
	}
	if c.Starfield.Speed < 0 || c.Rain.Speed < 0 || c.Warp.Speed < 0 || c.Mesh.Speed < 0 {
		return errors.New("speeds must not be negative")
	}
	if c.Warp.ScrollFactor < 0 {
		return errors.New("warp.scrollFactor must not be negative")
	}
	if c.Rain.Charset == "" {
		return errors.New("rain.charset cannot be empty")
	}

	colours := append([]string{c.Starfield.Color, c.Rain.Color, c.Warp.Color, c.Warp.SurgeColor}, c.Mesh.Colors...)
	for _, s := range colours {
		if s == "" {
			continue
		}
		if _, err := ParseHex(s); err != nil {
			return err
		}
	}
	return nil
}
