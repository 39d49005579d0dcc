package effect

import (
	"fmt"
	"math/rand"

	"github.com/olivierh59500/backdrop-go/internal/config"
)

// New builds the effect cfg names, styled by cfg's theme
func New(cfg config.Config, rng *rand.Rand) (Effect, error) {
	pal := cfg.Theme.Palette()
	switch cfg.Effect {
	case config.EffectStarfield:
		return checked(NewStarfield(cfg.Starfield, pal, rng))
	case config.EffectRain:
		return checked(NewRain(cfg.Rain, pal, rng))
	case config.EffectWarp:
		return checked(NewWarp(cfg.Warp, pal, rng))
	case config.EffectMesh:
		return checked(NewMesh(cfg.Mesh, pal, rng))
	case config.EffectDrift:
		return NewDrift(cfg.Drift, pal, rng), nil
	}
	return nil, fmt.Errorf("unknown effect %q", cfg.Effect)
}

// checked keeps a failed constructor from yielding a non-nil interface
// around a nil pointer
func checked[T Effect](e T, err error) (Effect, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}
