package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Languages the HUD can show
const (
	English = "en"
	French  = "fr"
)

// Prefs holds the two persisted visitor flags. It is loaded once and every
// setter writes the file back. Pass it explicitly; there is no global copy.
type Prefs struct {
	path string

	mu         sync.Mutex
	data       prefsFile
	themeSaved bool
}

type prefsFile struct {
	Language string `json:"language"`
	Theme    Theme  `json:"theme"`
}

// DefaultPrefsPath returns <user config dir>/backdrop/prefs.json
func DefaultPrefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "backdrop", "prefs.json"), nil
}

// LoadPrefs reads path. A missing file yields English and the dark theme.
// Unknown values in the file fall back to the same defaults.
func LoadPrefs(path string) (*Prefs, error) {
	p := &Prefs{
		path: path,
		data: prefsFile{Language: English, Theme: Dark},
	}
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs: %w", err)
	}

	var f prefsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return p, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	if f.Language == English || f.Language == French {
		p.data.Language = f.Language
	}
	if t, err := ParseTheme(string(f.Theme)); err == nil {
		p.data.Theme = t
		p.themeSaved = true
	}
	return p, nil
}

func (p *Prefs) Language() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Language
}

func (p *Prefs) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Theme
}

// ThemeOr returns the saved theme, or fallback when none was ever saved
func (p *Prefs) ThemeOr(fallback Theme) Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.themeSaved {
		return fallback
	}
	return p.data.Theme
}

// PickTheme applies theme precedence: a non-empty flag value, then the
// saved preference, then the config file's theme
func PickTheme(file Theme, prefs *Prefs, flagValue string) (Theme, error) {
	if flagValue != "" {
		return ParseTheme(flagValue)
	}
	if prefs != nil {
		return prefs.ThemeOr(file), nil
	}
	return file, nil
}

// SetTheme stores t and writes the file
func (p *Prefs) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.Theme = t
	p.themeSaved = true
	return p.save()
}

// SetLanguage stores lang and writes the file
func (p *Prefs) SetLanguage(lang string) error {
	if lang != English && lang != French {
		return fmt.Errorf("unsupported language %q", lang)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.Language = lang
	return p.save()
}

func (p *Prefs) save() error {
	if p.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

var labels = map[string]map[string]string{
	English: {
		EffectStarfield: "Starfield",
		EffectRain:      "Digital rain",
		EffectWarp:      "Warp tunnel",
		EffectMesh:      "Mesh gradient",
		EffectDrift:     "Flow dust",
		"theme":         "Theme",
		"scroll":        "Scroll",
		"help":          "1-5 effect  T theme  L language  wheel scroll  Q quit",
	},
	French: {
		EffectStarfield: "Champ d'étoiles",
		EffectRain:      "Pluie numérique",
		EffectWarp:      "Tunnel de distorsion",
		EffectMesh:      "Dégradé maillé",
		EffectDrift:     "Poussière de flux",
		"theme":         "Thème",
		"scroll":        "Défilement",
		"help":          "1-5 effet  T thème  L langue  molette défiler  Q quitter",
	},
}

// Label returns the HUD text for key in lang, falling back to English and
// then to the key itself
func Label(lang, key string) string {
	if s, ok := labels[lang][key]; ok {
		return s
	}
	if s, ok := labels[English][key]; ok {
		return s
	}
	return key
}

// NextLanguage cycles through the supported languages
func NextLanguage(lang string) string {
	if lang == English {
		return French
	}
	return English
}
