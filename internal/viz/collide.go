package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vizlab/internal/collision"
	"github.com/san-kum/vizlab/internal/config"
	"github.com/san-kum/vizlab/internal/engine"
)

const (
	trackWidth  = 60
	trackHeight = 4
	chartWidth  = 56
	chartHeight = 7
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

var inputNames = []string{"Mass 1 (kg)", "Velocity 1", "Mass 2 (kg)", "Velocity 2"}

// CollideModel is the interactive collision view. It owns a
// collision.Context and closes it when the program quits.
type CollideModel struct {
	ctx      *collision.Context
	inputs   collision.Params
	selected int
	theme    Theme
	styles   Styles
	prefsDir string
	log      *slog.Logger
	canvas   *Canvas
	status   string
}

// NewCollideModel builds the context from params in the given theme.
// Theme toggles are saved to prefsDir when it is not empty.
func NewCollideModel(params collision.Params, theme config.Theme, prefsDir string, log *slog.Logger) (*CollideModel, error) {
	if log == nil {
		log = slog.Default()
	}
	t := ThemeFor(theme)
	params = params.Sanitize()
	ctx, err := collision.New(params, collision.Options{
		Log:         log,
		Palette:     t.Chart(),
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
	})
	if err != nil {
		return nil, err
	}
	return &CollideModel{
		ctx:      ctx,
		inputs:   params,
		theme:    t,
		styles:   NewStyles(t),
		prefsDir: prefsDir,
		log:      log,
		canvas:   NewCanvas(trackWidth, trackHeight),
	}, nil
}

func (m *CollideModel) Init() tea.Cmd { return tick() }

// Context exposes the simulation context driven by the view.
func (m *CollideModel) Context() *collision.Context { return m.ctx }

// Theme returns the active theme.
func (m *CollideModel) Theme() Theme { return m.theme }

// Inputs returns the values the next reset will use.
func (m *CollideModel) Inputs() collision.Params { return m.inputs }

func (m *CollideModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctx.Close()
			return m, tea.Quit
		case " ":
			m.ctx.Toggle()
		case "r":
			m.reset()
		case "t":
			m.toggleTheme()
		case "m":
			m.inputs.Mode = m.inputs.Mode.Toggle()
			m.status = fmt.Sprintf("mode %s applies on reset", m.inputs.Mode)
		case "+", "=":
			m.inputs.TimeScale = m.ctx.SetTimeScale(m.ctx.TimeScale() + 0.1)
		case "-", "_":
			m.inputs.TimeScale = m.ctx.SetTimeScale(m.ctx.TimeScale() - 0.1)
		case "tab":
			m.selected = (m.selected + 1) % len(inputNames)
		case "shift+tab":
			m.selected = (m.selected + len(inputNames) - 1) % len(inputNames)
		case "up", "k":
			m.adjust(0.5)
		case "down", "j":
			m.adjust(-0.5)
		}
	case tea.WindowSizeMsg:
		mom, en := m.ctx.Charts()
		w := max(20, msg.Width/2-14)
		mom.Resize(w, chartHeight)
		en.Resize(w, chartHeight)
	case TickMsg:
		if _, err := m.ctx.Tick(); err != nil {
			m.status = err.Error()
		}
		return m, tick()
	}
	return m, nil
}

func (m *CollideModel) adjust(delta float64) {
	switch m.selected {
	case 0:
		m.inputs.Mass1 = math.Max(collision.MinMass, m.inputs.Mass1+delta)
	case 1:
		m.inputs.Velocity1 += delta
	case 2:
		m.inputs.Mass2 = math.Max(collision.MinMass, m.inputs.Mass2+delta)
	case 3:
		m.inputs.Velocity2 += delta
	}
}

func (m *CollideModel) reset() {
	m.inputs.TimeScale = m.ctx.TimeScale()
	if err := m.ctx.Reset(m.inputs); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *CollideModel) toggleTheme() {
	m.theme = ThemeFor(m.theme.Name.Toggle())
	m.styles = NewStyles(m.theme)
	if m.prefsDir != "" {
		if err := config.SavePrefs(m.prefsDir, config.Prefs{Theme: m.theme.Name}); err != nil {
			m.log.Warn("save prefs", "error", err)
		}
	}
	m.inputs.TimeScale = m.ctx.TimeScale()
	if err := m.ctx.Restyle(m.theme.Chart()); err != nil {
		m.status = err.Error()
	}
}

// drawTrack renders the boxes and the ground.
func (m *CollideModel) drawTrack() {
	c := m.canvas
	c.Clear()
	pw, ph := c.PixelWidth(), c.PixelHeight()
	length := m.ctx.World().Config().TrackLength
	scale := float64(pw) / length

	ground := ph - 1
	c.DrawLineTagged(0, ground, pw-1, ground, tagTrack)

	for _, b := range m.ctx.Bodies() {
		tag := tagBodyA
		if b.ID == collision.BodyB {
			tag = tagBodyB
		}
		half := b.Size / 2 * scale
		side := int(math.Max(2, math.Round(2*half)))
		x0 := int(math.Round(b.Position*scale - half))
		c.FillRect(x0, ground-1-min(side, ph-2), x0+side-1, ground-2, tag)
	}
}

func (m *CollideModel) paint(tag uint8, cell string) string {
	switch tag {
	case tagBodyA:
		return m.styles.BodyA.Render(cell)
	case tagBodyB:
		return m.styles.BodyB.Render(cell)
	case tagTrack:
		return m.styles.Separator.Render(cell)
	}
	return cell
}

func (m *CollideModel) View() string {
	m.drawTrack()
	st := m.styles

	var left strings.Builder
	left.WriteString(st.Header.Render("1-D COLLISION") + "\n")
	if m.ctx.Paused() {
		left.WriteString(st.Paused.Render("PAUSED") + "\n")
	} else {
		left.WriteString(st.Running.Render("RUNNING") + "\n")
	}
	left.WriteString(st.Canvas.Render(m.canvas.Render(m.paint)) + "\n")

	mom, en := m.ctx.Charts()
	left.WriteString(mom.Render() + "\n\n")
	left.WriteString(en.Render())

	var right strings.Builder
	q := m.ctx.Quantities()
	right.WriteString(st.Row("Time", fmt.Sprintf("%.2f s", m.ctx.Time())) + "\n")
	right.WriteString(st.Row("Momentum", fmt.Sprintf("%.2f kg m/s", q.TotalMomentum)) + "\n")
	right.WriteString(st.Row("Kinetic E", fmt.Sprintf("%.2f J", q.TotalKineticEnergy)) + "\n")
	right.WriteString(st.Row("Mode", m.ctx.Params().Mode.String()) + "\n")
	right.WriteString(st.Row("Time scale", fmt.Sprintf("%s %.1fx",
		Slider(m.ctx.TimeScale(), engine.MinTimeScale, engine.MaxTimeScale, 10), m.ctx.TimeScale())) + "\n")
	merges, state := m.ctx.Merges()
	right.WriteString(st.Row("Merges", fmt.Sprintf("%d (%s)", merges, state)) + "\n")
	right.WriteString(st.Rule(32) + "\n")

	for _, b := range q.Bodies {
		style := st.BodyA
		if b.ID == collision.BodyB {
			style = st.BodyB
		}
		line := "merged"
		if b.Present {
			line = fmt.Sprintf("m=%.2f v=%+.2f p=%+.2f KE=%.2f", b.Mass, b.Velocity, b.Momentum, b.KineticEnergy)
		}
		right.WriteString(style.Render("Box "+string(b.ID)) + " " + st.Value.Render(line) + "\n")
	}
	right.WriteString(st.Rule(32) + "\n")

	values := []float64{m.inputs.Mass1, m.inputs.Velocity1, m.inputs.Mass2, m.inputs.Velocity2}
	for i, name := range inputNames {
		line := fmt.Sprintf("%-12s %6.2f", name, values[i])
		if i == m.selected {
			right.WriteString(st.Active.Render("> "+line) + "\n")
		} else {
			right.WriteString("  " + st.Value.Render(line) + "\n")
		}
	}
	right.WriteString("  " + st.Value.Render(fmt.Sprintf("%-12s %s", "Next mode", m.inputs.Mode)) + "\n")
	if m.status != "" {
		right.WriteString(st.Warning.Render(m.status) + "\n")
	}
	right.WriteString(st.Help.Render("SP:Start/Pause R:Reset Q:Quit\nT:Theme M:Mode +/-:Speed\nTab:Input ↑↓:Adjust"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), st.Panel.Render(right.String()))
}
