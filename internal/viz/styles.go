package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles of the status bar and help panel for one
// theme.
type Styles struct {
	Bar     lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	On      lipgloss.Style
	Off     lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	KeyHint lipgloss.Style
	Panel   lipgloss.Style
	Title   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Bar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		On:      lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Off:     lipgloss.NewStyle().Foreground(t.Muted),
		Running: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		KeyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(1, 2),
		Title: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// Toggle renders a named on/off flag.
func (s Styles) Toggle(name string, on bool) string {
	if on {
		return s.On.Render(name)
	}
	return s.Off.Render(name)
}

// Field renders "label value".
func (s Styles) Field(label, value string) string {
	return s.Label.Render(label) + " " + s.Value.Render(value)
}

// Sparkline renders a mini chart of the last width values.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return b.String()
}
