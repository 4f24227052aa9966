package config

import "sort"

// Presets are named playback and render profiles.
var Presets = map[string]*Config{
	"lecture": {
		Animation: AnimationConfig{Rate: 0.05, Loop: false, FPS: 30},
		Render:    RenderConfig{Theme: "chalkboard", Width: 100, Height: 30},
		View:      "macro",
	},
	"demo": {
		Animation: AnimationConfig{Rate: 0.2, Loop: true, FPS: 30},
		Render:    RenderConfig{Theme: "lab", Width: 80, Height: 24},
		View:      "micro",
	},
	"inspect": {
		Animation: AnimationConfig{Rate: 0.02, Loop: false, FPS: 10},
		Render:    RenderConfig{Theme: "blueprint", Width: 120, Height: 36},
		View:      "nano",
	},
}

// GetPreset returns a copy of a preset layered over base, or nil when the
// preset does not exist. Store and log settings come from base.
func GetPreset(name string, base *Config) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	if base == nil {
		base = DefaultConfig()
	}
	cfg := *base
	cfg.Animation = p.Animation
	cfg.Render = p.Render
	cfg.View = p.View
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
