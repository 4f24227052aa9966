package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the live view.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Playing   lipgloss.Color
	Paused    lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeLab = Theme{
		Name:      "lab",
		Primary:   lipgloss.Color("#7fdbff"),
		Secondary: lipgloss.Color("#b0bec5"),
		Accent:    lipgloss.Color("#ffca28"),
		Text:      lipgloss.Color("#eceff1"),
		Muted:     lipgloss.Color("#607d8b"),
		Playing:   lipgloss.Color("#66bb6a"),
		Paused:    lipgloss.Color("#ffa726"),
		Error:     lipgloss.Color("#ef5350"),
	}

	ThemeChalkboard = Theme{
		Name:      "chalkboard",
		Primary:   lipgloss.Color("#f5f5f0"),
		Secondary: lipgloss.Color("#c8e6c9"),
		Accent:    lipgloss.Color("#fff59d"),
		Text:      lipgloss.Color("#f5f5f0"),
		Muted:     lipgloss.Color("#789a7b"),
		Playing:   lipgloss.Color("#a5d6a7"),
		Paused:    lipgloss.Color("#ffe082"),
		Error:     lipgloss.Color("#ef9a9a"),
	}

	ThemeBlueprint = Theme{
		Name:      "blueprint",
		Primary:   lipgloss.Color("#e3f2fd"),
		Secondary: lipgloss.Color("#90caf9"),
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#e3f2fd"),
		Muted:     lipgloss.Color("#5c7fa3"),
		Playing:   lipgloss.Color("#80deea"),
		Paused:    lipgloss.Color("#b39ddb"),
		Error:     lipgloss.Color("#ff8a80"),
	}

	ThemePrint = Theme{
		Name:      "print",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Playing:   lipgloss.Color("#ffffff"),
		Paused:    lipgloss.Color("#aaaaaa"),
		Error:     lipgloss.Color("#ffffff"),
	}

	Themes = []Theme{
		ThemeLab,
		ThemeChalkboard,
		ThemeBlueprint,
		ThemePrint,
	}
)

// GetTheme returns a theme by name, or the lab theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLab
}

// NextTheme cycles to the theme after name.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
