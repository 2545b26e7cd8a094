package viz

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/spacetime/internal/render"
)

// Theme maps the renderer palette onto terminal colours, plus the colours
// used by the status bar.
type Theme struct {
	Name    string
	Body    lipgloss.Color
	Focus   lipgloss.Color
	Trail   lipgloss.Color
	Grid    lipgloss.Color
	Overlay lipgloss.Color
	Vector  lipgloss.Color

	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
}

// Available themes
var (
	// ThemeNight inverts the light palette for dark terminals.
	ThemeNight = Theme{
		Name:    "night",
		Body:    lipgloss.Color("#ffffff"),
		Focus:   lipgloss.Color("#40a2bf"),
		Trail:   lipgloss.Color("#888888"),
		Grid:    lipgloss.Color("#333333"),
		Overlay: lipgloss.Color("#aaaaaa"),
		Vector:  lipgloss.Color("#dd5555"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Accent:  lipgloss.Color("#00ccff"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	// ThemePaper keeps the renderer's own colours.
	ThemePaper = Theme{
		Name:    "paper",
		Body:    hex(render.ColBody),
		Focus:   hex(render.ColFocus),
		Trail:   hex(render.ColTrail),
		Grid:    hex(render.ColGrid),
		Overlay: hex(render.ColOverlay),
		Vector:  hex(render.ColVector),
		Text:    lipgloss.Color("#000000"),
		Muted:   lipgloss.Color("#888888"),
		Accent:  lipgloss.Color("#0088ff"),
		Warning: lipgloss.Color("#cc6600"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Body:    lipgloss.Color("#00ff00"), // Green phosphor
		Focus:   lipgloss.Color("#88ff88"),
		Trail:   lipgloss.Color("#00aa00"),
		Grid:    lipgloss.Color("#003300"),
		Overlay: lipgloss.Color("#00cc00"),
		Vector:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Accent:  lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Body:    lipgloss.Color("#e0f0ff"),
		Focus:   lipgloss.Color("#ffd700"),
		Trail:   lipgloss.Color("#0077be"),
		Grid:    lipgloss.Color("#0a2a44"),
		Overlay: lipgloss.Color("#00a8cc"),
		Vector:  lipgloss.Color("#ff4444"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Accent:  lipgloss.Color("#ffd700"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	// All available themes
	Themes = []Theme{
		ThemeNight,
		ThemePaper,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

// Colour translates a renderer colour. Colours outside the palette pass
// through unchanged.
func (t Theme) Colour(c color.Color) lipgloss.Color {
	if c == nil {
		return t.Body
	}
	switch {
	case sameColor(c, render.ColBody):
		return t.Body
	case sameColor(c, render.ColFocus):
		return t.Focus
	case sameColor(c, render.ColTrail):
		return t.Trail
	case sameColor(c, render.ColGrid):
		return t.Grid
	case sameColor(c, render.ColOverlay):
		return t.Overlay
	case sameColor(c, render.ColVector):
		return t.Vector
	}
	return hex(c)
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
