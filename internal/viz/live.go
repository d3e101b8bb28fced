package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tiltsim/internal/layout"
	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sensor"
	"github.com/san-kum/tiltsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	sidebarWidth    = 40
	historyCapacity = 120
	tiltStep        = 5.0
	maxTilt         = 90.0

	// DefaultWidthMeters is the physical width the terminal canvas stands for.
	DefaultWidthMeters float32 = 0.07
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures the terminal host.
type Options struct {
	// Source drives the tilt until an arrow key takes over. Nil starts in
	// manual mode at TiltX, TiltY.
	Source       sensor.Source
	TiltX, TiltY float64
	WidthMeters  float32
	BallDiameter float32
	Theme        string
}

// Model is a bubbletea program hosting a sim.Host on a braille canvas.
type Model struct {
	host         *sim.Host
	source       sensor.Source
	tiltX, tiltY float64
	widthMeters  float32
	ballDiameter float32
	theme        Theme
	canvas       *Canvas
	cols, rows   int
	started      time.Time
	last         sim.Frame
	speeds       []float64
	showHelp     bool
	err          error
}

// NewModel starts the host and sizes the canvas for a default terminal.
// The first WindowSizeMsg replaces the geometry.
func NewModel(host *sim.Host, opts Options) *Model {
	if opts.WidthMeters <= 0 {
		opts.WidthMeters = DefaultWidthMeters
	}
	if opts.BallDiameter <= 0 {
		opts.BallDiameter = layout.DefaultBallDiameter
	}
	m := &Model{
		host:         host,
		source:       opts.Source,
		tiltX:        opts.TiltX,
		tiltY:        opts.TiltY,
		widthMeters:  opts.WidthMeters,
		ballDiameter: opts.BallDiameter,
		theme:        GetTheme(opts.Theme),
		speeds:       make([]float64, 0, historyCapacity),
	}
	m.resize(width, height)
	host.Start()
	return m
}

// TerminalGeometry sizes a drawing surface of cols x rows braille cells.
// Braille dots are close to square, so one DPI serves both axes.
func TerminalGeometry(cols, rows int, widthMeters, ballDiameter float32) layout.Geometry {
	dpi := layout.FitDPI(cols*2, widthMeters)
	return layout.Geometry{
		WidthPx:      cols * 2,
		HeightPx:     rows * 4,
		XDPI:         dpi,
		YDPI:         dpi,
		BallDiameter: ballDiameter,
	}
}

func (m *Model) Init() tea.Cmd {
	m.started = time.Now()
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.host.Stop()
			return m, tea.Quit
		case " ":
			if m.host.Running() {
				m.host.Stop()
			} else {
				m.host.Start()
			}
		case "r":
			m.host.OnRotationChanged(m.host.Rotation().Next())
		case "left", "h":
			m.nudge(tiltStep, 0)
		case "right", "l":
			m.nudge(-tiltStep, 0)
		case "up", "k":
			m.nudge(0, -tiltStep)
		case "down", "j":
			m.nudge(0, tiltStep)
		case "c":
			m.source = nil
			m.tiltX, m.tiltY = 0, 0
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-sidebarWidth-4, msg.Height-2)
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

// nudge switches to manual tilt and moves it by the given degrees.
func (m *Model) nudge(dx, dy float64) {
	m.source = nil
	m.tiltX = clampTilt(m.tiltX + dx)
	m.tiltY = clampTilt(m.tiltY + dy)
}

func clampTilt(v float64) float64 {
	return math.Max(-maxTilt, math.Min(maxTilt, v))
}

func (m *Model) resize(cols, rows int) {
	if cols < 10 {
		cols = 10
	}
	if rows < 5 {
		rows = 5
	}
	m.cols, m.rows = cols, rows
	m.canvas = NewCanvas(cols, rows)
	m.err = m.host.OnGeometryChanged(TerminalGeometry(cols, rows, m.widthMeters, m.ballDiameter))
	m.draw()
}

// step feeds one sensor reading and advances the host to now.
func (m *Model) step(now time.Time) {
	if m.started.IsZero() {
		m.started = now
	}
	var raw sensor.Vector
	if m.source != nil {
		raw = m.source.Sample(now.Sub(m.started).Seconds())
	} else {
		raw = sensor.NewTilt(m.tiltX, m.tiltY).Reading
	}
	nanos := now.UnixNano()
	m.host.OnSensorSample(raw.X, raw.Y, raw.Z, nanos)
	m.last = m.host.Frame(nanos)

	if m.host.Running() {
		m.speeds = append(m.speeds, meanSpeed(m.last.Velocities))
		if len(m.speeds) > historyCapacity {
			m.speeds = m.speeds[1:]
		}
	}
	m.draw()
}

func meanSpeed(vs []physics.Vec2) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += math.Hypot(float64(v.X), float64(v.Y))
	}
	return sum / float64(len(vs))
}

// ballDots returns each ball's centre and radius in canvas sub-pixels.
func (m *Model) ballDots() (centers [][2]int, radius int) {
	l := m.host.Layout()
	radius = l.BallWidthPx / 2
	for _, p := range m.host.System().Positions() {
		x, y := l.Center(p)
		centers = append(centers, [2]int{int(x), int(y)})
	}
	return centers, radius
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.DrawRect(0, 0, m.canvas.DotsWide()-1, m.canvas.DotsHigh()-1)
	centers, r := m.ballDots()
	for _, c := range centers {
		m.canvas.FillCircle(c[0], c[1], r)
	}
}

// renderCanvas colours the cells covered by ball 0 with the lead colour.
func (m *Model) renderCanvas() string {
	centers, r := m.ballDots()
	lead := lipgloss.NewStyle().Foreground(m.theme.Lead)
	body := lipgloss.NewStyle().Foreground(m.theme.Primary)

	var c0, c1, r0, r1 = -1, -2, -1, -2
	if len(centers) > 0 {
		x, y := centers[0][0], centers[0][1]
		c0, c1 = (x-r)/2, (x+r)/2
		r0, r1 = (y-r)/4, (y+r)/4
	}

	var b strings.Builder
	for row, cells := range m.canvas.Grid {
		if row < r0 || row > r1 {
			b.WriteString(body.Render(string(cells)))
			b.WriteByte('\n')
			continue
		}
		lo := clampInt(c0, 0, len(cells))
		hi := clampInt(c1+1, lo, len(cells))
		b.WriteString(body.Render(string(cells[:lo])))
		b.WriteString(lead.Render(string(cells[lo:hi])))
		b.WriteString(body.Render(string(cells[hi:])))
		b.WriteByte('\n')
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *Model) View() string {
	st := stylesFor(m.theme)
	var s strings.Builder

	s.WriteString(GradientText("TILTSIM", m.theme.Primary, m.theme.Secondary) + "\n\n")
	if m.host.Running() {
		s.WriteString(StatusRunning.Render(AnimatedSpinner(m.last.Index)+" RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	mode := "manual"
	if m.source != nil {
		mode = "source"
	}
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.last.Time))
	row("Frames", fmt.Sprintf("%d", m.last.Index))
	row("Rotation", m.host.Rotation().String())
	row("Tilt", fmt.Sprintf("%+.0f° %+.0f° (%s)", m.tiltX, m.tiltY, mode))
	row("Accel", fmt.Sprintf("%+.2f %+.2f", m.last.AccelX, m.last.AccelY))
	row("Bounds", fmt.Sprintf("%.3f x %.3f m", m.last.Bounds.X, m.last.Bounds.Y))
	if len(m.last.Positions) > 0 {
		p := m.last.Positions[0]
		s.WriteString(st.label.Render("Lead") + st.lead.Render(fmt.Sprintf("%+.3f %+.3f", p.X, p.Y)) + "\n")
	}

	tilt := math.Hypot(m.tiltX, m.tiltY) / maxTilt
	s.WriteString("\n" + st.label.Render("Incline") + ProgressBar(tilt, 16) + "\n")

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean speed m/s"))
		s.WriteString("\n" + st.graph.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + st.err.Render(m.err.Error()) + "\n")
	}

	s.WriteString(KeyHint.Render("\n" + Separator(30) + "\nSP:Pause R:Rotate Q:Quit\nT:Theme  C:Level   ?:Help\n←→↑↓:Tilt"))

	canvasView := canvasStyle.Render(m.renderCanvas())
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Rotate screen 90°        ║
║  Arrows   - Tilt the device          ║
║  C        - Level the device         ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Tilt reports the manual tilt in degrees.
func (m *Model) Tilt() (x, y float64) { return m.tiltX, m.tiltY }

// Last returns the most recent frame.
func (m *Model) Last() sim.Frame { return m.last }

func (m *Model) Canvas() *Canvas { return m.canvas }
func (m *Model) Theme() Theme    { return m.theme }
