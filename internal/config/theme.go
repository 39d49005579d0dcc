package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Theme selects colour and opacity constants. It never changes how an
// effect moves, only how it looks.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// ParseTheme accepts "dark" or "light", case-insensitively
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, nil
	case Light:
		return Light, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Palette holds the theme constants effects draw with
type Palette struct {
	Background color.NRGBA
	Star       color.NRGBA
	Rain       color.NRGBA
	Warp       color.NRGBA
	Surge      color.NRGBA
	Blobs      []color.NRGBA

	// Opacity scales every particle's alpha
	Opacity float64
	// SurgeOpacity replaces Opacity while the warp tunnel surges
	SurgeOpacity float64
	// DriftValue is the HSV value used for flow-field dust
	DriftValue float64
}

// Palette returns the constants for t. Unknown themes get the dark palette.
func (t Theme) Palette() Palette {
	if t == Light {
		return Palette{
			Background:   mustHex("#f8fafc"),
			Star:         mustHex("#334155"),
			Rain:         mustHex("#059669"),
			Warp:         mustHex("#0ea5e9"),
			Surge:        mustHex("#c026d3"),
			Blobs:        []color.NRGBA{mustHex("#c7d2fe"), mustHex("#fbcfe8"), mustHex("#a5f3fc"), mustHex("#ddd6fe")},
			Opacity:      0.6,
			SurgeOpacity: 0.8,
			DriftValue:   0.55,
		}
	}
	return Palette{
		Background:   mustHex("#05060a"),
		Star:         mustHex("#ffffff"),
		Rain:         mustHex("#00ff41"),
		Warp:         mustHex("#7dd3fc"),
		Surge:        mustHex("#f0abfc"),
		Blobs:        []color.NRGBA{mustHex("#6366f1"), mustHex("#ec4899"), mustHex("#06b6d4"), mustHex("#8b5cf6")},
		Opacity:      0.9,
		SurgeOpacity: 1.0,
		DriftValue:   0.9,
	}
}

// ParseHex reads #rgb, #rrggbb or #rrggbbaa
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve returns the override colour when set, otherwise fallback
func Resolve(override string, fallback color.NRGBA) (color.NRGBA, error) {
	if override == "" {
		return fallback, nil
	}
	return ParseHex(override)
}
