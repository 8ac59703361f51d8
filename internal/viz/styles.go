package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Active    lipgloss.Style
	Help      lipgloss.Style
	Panel     lipgloss.Style
	Canvas    lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Warning   lipgloss.Style
	BodyA     lipgloss.Style
	BodyB     lipgloss.Style
	Total     lipgloss.Style
	Velocity  lipgloss.Style
	Omega     lipgloss.Style
	Coriolis  lipgloss.Style
	Separator lipgloss.Style
}

// NewStyles derives every style from t.
func NewStyles(t Theme) Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label:  fg(t.Muted).Width(14),
		Value:  fg(t.Text),
		Active: fg(t.Accent).Bold(true),
		Help:   fg(t.Muted).Italic(true).MarginTop(1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Canvas:    lipgloss.NewStyle().Foreground(t.Text).Padding(0, 1),
		Running:   fg(t.Success).Bold(true),
		Paused:    fg(t.Warning).Bold(true),
		Warning:   fg(t.Error),
		BodyA:     fg(t.BodyA).Bold(true),
		BodyB:     fg(t.BodyB).Bold(true),
		Total:     fg(t.Total),
		Velocity:  fg(t.Velocity).Bold(true),
		Omega:     fg(t.Omega).Bold(true),
		Coriolis:  fg(t.Coriolis).Bold(true),
		Separator: fg(t.Muted),
	}
}

// Row renders a label and a value on one line.
func (s Styles) Row(label, value string) string {
	return s.Label.Render(label) + s.Value.Render(value)
}

// Rule draws a decorative separator.
func (s Styles) Rule(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Separator.Render(left + " ◆ " + right)
}

// Slider renders a horizontal gauge of value within [lo, hi].
func Slider(value, lo, hi float64, width int) string {
	ratio := 0.0
	if hi > lo {
		ratio = (value - lo) / (hi - lo)
	}
	ratio = max(0, min(1, ratio))
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
