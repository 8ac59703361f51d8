package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vizlab/internal/config"
	"github.com/san-kum/vizlab/internal/coriolis"
)

const (
	globeWidth  = 48
	globeHeight = 24

	speedStep    = 5.0
	velocityStep = 1.0
	moveStep     = 5.0
)

// GlobeModel is the interactive Coriolis view.
type GlobeModel struct {
	globe    *coriolis.Globe
	camera   *Camera
	texture  *coriolis.Texture
	canvas   *Canvas
	theme    Theme
	styles   Styles
	prefsDir string
	log      *slog.Logger
	result   *coriolis.Result
	status   string
}

// NewGlobeModel starts a rotating globe with the selection and velocity
// of cfg. A nil texture draws the wireframe only.
func NewGlobeModel(cfg config.CoriolisConfig, texture *coriolis.Texture, theme config.Theme, prefsDir string, log *slog.Logger) *GlobeModel {
	if log == nil {
		log = slog.Default()
	}
	g := coriolis.NewGlobe()
	g.SetSlider(cfg.Speed)
	g.Select(cfg.Latitude, cfg.Longitude)
	g.SetVelocity(cfg.North, cfg.East)

	t := ThemeFor(theme)
	m := &GlobeModel{
		globe:    g,
		camera:   NewCamera(),
		texture:  texture,
		canvas:   NewCanvas(globeWidth, globeHeight),
		theme:    t,
		styles:   NewStyles(t),
		prefsDir: prefsDir,
		log:      log,
	}
	m.evaluate()
	return m
}

func (m *GlobeModel) Init() tea.Cmd { return tick() }

// Globe returns the animated globe.
func (m *GlobeModel) Globe() *coriolis.Globe { return m.globe }

// Theme returns the active theme.
func (m *GlobeModel) Theme() Theme { return m.theme }

// Result returns the latest evaluation, or nil when nothing is selected.
func (m *GlobeModel) Result() *coriolis.Result { return m.result }

func (m *GlobeModel) evaluate() {
	res, err := m.globe.Evaluate()
	if err != nil {
		m.result = nil
		m.log.Debug("evaluate", "error", err)
		return
	}
	m.result = &res
}

func (m *GlobeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		north, east := m.globe.Velocity()
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.globe.ToggleRotation()
		case "]":
			m.globe.SetSlider(m.globe.Slider() + speedStep)
		case "[":
			m.globe.SetSlider(m.globe.Slider() - speedStep)
		case "up":
			m.globe.MoveSelection(moveStep, 0)
		case "down":
			m.globe.MoveSelection(-moveStep, 0)
		case "right":
			m.globe.MoveSelection(0, moveStep)
		case "left":
			m.globe.MoveSelection(0, -moveStep)
		case "w":
			m.globe.SetVelocity(north+velocityStep, east)
		case "s":
			m.globe.SetVelocity(north-velocityStep, east)
		case "d":
			m.globe.SetVelocity(north, east+velocityStep)
		case "a":
			m.globe.SetVelocity(north, east-velocityStep)
		case "0":
			m.globe.SetVelocity(0, 0)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "t":
			m.toggleTheme()
		}
		m.evaluate()
	case TickMsg:
		m.globe.Advance()
		return m, tick()
	}
	return m, nil
}

func (m *GlobeModel) toggleTheme() {
	m.theme = ThemeFor(m.theme.Name.Toggle())
	m.styles = NewStyles(m.theme)
	if m.prefsDir == "" {
		return
	}
	if err := config.SavePrefs(m.prefsDir, config.Prefs{Theme: m.theme.Name}); err != nil {
		m.log.Warn("save prefs", "error", err)
		m.status = "theme not saved"
	}
}

func (m *GlobeModel) paint(tag uint8, cell string) string {
	st := m.styles
	switch tag {
	case tagLand:
		return st.Total.Render(cell)
	case tagVelocity:
		return st.Velocity.Render(cell)
	case tagOmega:
		return st.Omega.Render(cell)
	case tagCoriolis:
		return st.Coriolis.Render(cell)
	case tagSelection:
		return st.Active.Render(cell)
	}
	return st.Separator.Render(cell)
}

func (m *GlobeModel) View() string {
	m.canvas.Clear()
	DrawGlobe(m.canvas, GlobeScene{
		Globe:   m.globe,
		Camera:  m.camera,
		Texture: m.texture,
		Result:  m.result,
	})
	st := m.styles

	var left strings.Builder
	left.WriteString(st.Header.Render("CORIOLIS") + "\n")
	if m.globe.Rotating() {
		left.WriteString(st.Running.Render("ROTATING") + "\n")
	} else {
		left.WriteString(st.Paused.Render("STOPPED") + "\n")
	}
	left.WriteString(st.Canvas.Render(m.canvas.Render(m.paint)))

	var right strings.Builder
	if lat, lon, ok := m.globe.SelectionLatLon(); ok {
		right.WriteString(st.Row("Latitude", fmt.Sprintf("%+.1f°", lat)) + "\n")
		right.WriteString(st.Row("Longitude", fmt.Sprintf("%+.1f°", lon)) + "\n")
	} else {
		right.WriteString(st.Row("Point", "none") + "\n")
	}
	north, east := m.globe.Velocity()
	right.WriteString(st.Row("North", fmt.Sprintf("%+.1f m/s", north)) + "\n")
	right.WriteString(st.Row("East", fmt.Sprintf("%+.1f m/s", east)) + "\n")
	right.WriteString(st.Rule(30) + "\n")

	if m.result != nil {
		right.WriteString(st.Row("|v|", fmt.Sprintf("%.2f m/s", m.result.Speed)) + "\n")
		right.WriteString(st.Label.Render("|a|") + st.Coriolis.Render(coriolis.FormatMagnitude(m.result.Magnitude)) + "\n")
		if m.result.Frame.Polar {
			right.WriteString(st.Warning.Render("near pole: fallback frame") + "\n")
		}
	}
	right.WriteString(st.Rule(30) + "\n")
	right.WriteString(st.Row("Spin", fmt.Sprintf("%s %3.0f", Slider(m.globe.Slider(), coriolis.SliderMin, coriolis.SliderMax, 10), m.globe.Slider())) + "\n")
	right.WriteString(st.Row("Rate", fmt.Sprintf("%.4f rad/frame", m.globe.Speed())) + "\n")

	texture := "wireframe"
	if m.texture != nil {
		texture = "textured"
	}
	right.WriteString(st.Row("Surface", texture) + "\n")
	right.WriteString(st.Velocity.Render("━ velocity ") + st.Omega.Render("━ Ω ") + st.Coriolis.Render("━ Coriolis") + "\n")
	if m.status != "" {
		right.WriteString(st.Warning.Render(m.status) + "\n")
	}
	right.WriteString(st.Help.Render("SP:Spin [ ]:Speed ←↑↓→:Point\nW/S:North A/D:East 0:Stop\nX/Y:Camera T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), st.Panel.Render(right.String()))
}
