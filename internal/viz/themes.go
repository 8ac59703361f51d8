package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vizlab/internal/config"
	"github.com/san-kum/vizlab/internal/export"
	"github.com/san-kum/vizlab/internal/series"
)

// Theme defines the color scheme of both views.
type Theme struct {
	Name       config.Theme
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color

	// Body colors for box A and box B, then the total line.
	BodyA lipgloss.Color
	BodyB lipgloss.Color
	Total lipgloss.Color

	// Arrow colors on the globe.
	Velocity lipgloss.Color
	Omega    lipgloss.Color
	Coriolis lipgloss.Color

	chart series.Palette
	svg   export.Theme
}

var (
	ThemeLight = Theme{
		Name:       config.Light,
		Primary:    lipgloss.Color("#005f87"),
		Secondary:  lipgloss.Color("#5f5f87"),
		Accent:     lipgloss.Color("#af5f00"),
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#1c1c1c"),
		Muted:      lipgloss.Color("#808080"),
		Success:    lipgloss.Color("#008700"),
		Warning:    lipgloss.Color("#af8700"),
		Error:      lipgloss.Color("#d70000"),
		BodyA:      lipgloss.Color("#d70000"),
		BodyB:      lipgloss.Color("#005fd7"),
		Total:      lipgloss.Color("#008700"),
		Velocity:   lipgloss.Color("#d70000"),
		Omega:      lipgloss.Color("#008700"),
		Coriolis:   lipgloss.Color("#005fd7"),
		chart: series.Palette{
			Bodies: []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue},
			Total:  asciigraph.Green,
			Axis:   asciigraph.Gray,
			Label:  asciigraph.Black,
		},
		svg: export.LightTheme,
	}

	ThemeDark = Theme{
		Name:       config.Dark,
		Primary:    lipgloss.Color("#00d7ff"),
		Secondary:  lipgloss.Color("#af87ff"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#eeeeee"),
		Muted:      lipgloss.Color("#666666"),
		Success:    lipgloss.Color("#5fff87"),
		Warning:    lipgloss.Color("#ffaf00"),
		Error:      lipgloss.Color("#ff5f5f"),
		BodyA:      lipgloss.Color("#ff5f5f"),
		BodyB:      lipgloss.Color("#5fafff"),
		Total:      lipgloss.Color("#5fff87"),
		Velocity:   lipgloss.Color("#ff5f5f"),
		Omega:      lipgloss.Color("#5fff87"),
		Coriolis:   lipgloss.Color("#5fafff"),
		chart: series.Palette{
			Bodies: []asciigraph.AnsiColor{asciigraph.IndianRed, asciigraph.DeepSkyBlue},
			Total:  asciigraph.LightGreen,
			Axis:   asciigraph.DimGray,
			Label:  asciigraph.LightGray,
		},
		svg: export.DarkTheme,
	}
)

// ThemeFor returns the view theme of a persisted preference.
func ThemeFor(t config.Theme) Theme {
	if t == config.Dark {
		return ThemeDark
	}
	return ThemeLight
}

// Chart returns the asciigraph palette of the theme.
func (t Theme) Chart() series.Palette { return t.chart }

// SVG returns the export colors of the theme.
func (t Theme) SVG() export.Theme { return t.svg }
