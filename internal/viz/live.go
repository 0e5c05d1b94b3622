package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/export"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width  = 80
	height = 24
	fps    = 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay plays back a finished run: every body with its recent trail and a
// marker sized by mass.
type Replay struct {
	scenario *config.Scenario
	traj     *dynamo.Trajectory
	times    []float64
	canvas   *Canvas
	view     export.Viewport
	styles   []lipgloss.Style
	radii    []int
	head     int
	speed    int
	running  bool
	showInfo bool
	showHelp bool
}

func NewReplay(s *config.Scenario, traj *dynamo.Trajectory, times []float64) Replay {
	canvas := NewCanvas(width, height)
	pw, ph := canvas.PixelSize()

	sizes := export.MarkerSizes(s.Masses, 1, 3)
	radii := make([]int, len(sizes))
	for i, sz := range sizes {
		radii[i] = int(math.Round(sz)) - 1
	}

	speed := traj.Len() / 600
	if speed < 1 {
		speed = 1
	}

	return Replay{
		scenario: s,
		traj:     traj,
		times:    times,
		canvas:   canvas,
		view:     export.FitViewport(traj.Bounds(), pw, ph, 0.05),
		styles:   BodyStyles(traj.Bodies()),
		radii:    radii,
		speed:    speed,
		running:  traj.Len() > 0,
		showInfo: true,
	}
}

func (m Replay) Init() tea.Cmd {
	return tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.done() {
				m.head = 0
			}
			m.running = !m.running
		case "r":
			m.head = 0
			m.running = true
		case "+", "=":
			m.speed *= 2
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "[":
			m.seek(-10 * m.speed)
		case "]":
			m.seek(10 * m.speed)
		case "i":
			m.showInfo = !m.showInfo
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.seek(m.speed)
			if m.done() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Replay) seek(delta int) {
	m.head += delta
	if last := m.traj.Len() - 1; m.head > last {
		m.head = last
	}
	if m.head < 0 {
		m.head = 0
	}
}

func (m Replay) done() bool {
	return m.head >= m.traj.Len()-1
}

// Head is the step currently shown.
func (m Replay) Head() int { return m.head }

func (m Replay) Speed() int { return m.speed }

func (m Replay) Running() bool { return m.running }

func (m *Replay) draw() {
	m.canvas.Clear()
	if m.traj.Len() == 0 {
		return
	}
	from := m.head + 1 - export.TrailLength
	if from < 0 {
		from = 0
	}

	for body := 0; body < m.traj.Bodies(); body++ {
		px, py := m.view.ToPixel(m.traj.Point(from, body))
		for i := from + 1; i <= m.head; i++ {
			x, y := m.view.ToPixel(m.traj.Point(i, body))
			m.canvas.DrawLine(px, py, x, y, body)
			px, py = x, y
		}
	}
	for body := 0; body < m.traj.Bodies(); body++ {
		x, y := m.view.ToPixel(m.traj.Point(m.head, body))
		r := 1
		if body < len(m.radii) {
			r = m.radii[body]
		}
		m.canvas.Disc(x, y, r, body)
	}
}

func (m Replay) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.styles))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario.Title())) + "\n")

	switch {
	case m.done():
		s.WriteString(StatusDone.Render("DONE") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render(fmt.Sprintf("PLAYING x%d", m.speed)) + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	progress := 1.0
	if n := m.traj.Len(); n > 1 {
		progress = float64(m.head) / float64(n-1)
	}
	s.WriteString(ProgressBar(progress, 30) + "\n\n")

	t := 0.0
	if m.head < len(m.times) {
		t = m.times[m.head]
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f / %g yr", t, m.scenario.Duration)) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d / %d", m.head+1, m.traj.Len())) + "\n")

	if m.traj.Len() > 0 {
		for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
			d := r2Dist(m.traj, m.head, pair[0], pair[1])
			label := fmt.Sprintf("d%d%d", pair[0]+1, pair[1]+1)
			s.WriteString(labelStyle.Render(label) + valueStyle.Render(export.FormatE(d)+" AU") + "\n")
		}
	}

	s.WriteString("\n")
	for i, name := range m.scenario.Names {
		if i < len(m.styles) {
			s.WriteString(m.styles[i].Render("● "+name) + "  ")
		}
	}
	s.WriteString("\n")

	if m.showInfo {
		s.WriteString("\n" + Separator(36) + "\n")
		for _, line := range export.Annotation(m.scenario) {
			s.WriteString(Subtle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Restart Q:Quit\n+/-:Speed [ ]:Seek I:Info ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from the start   ║
║  Q        - Quit                     ║
║  + / -    - Double / halve speed     ║
║  [ / ]    - Seek backward / forward  ║
║  I        - Toggle initial values    ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func r2Dist(traj *dynamo.Trajectory, step, i, j int) float64 {
	return r2.Norm(r2.Sub(traj.Point(step, j), traj.Point(step, i)))
}

// RunReplay shows the replay full screen until the user quits.
func RunReplay(s *config.Scenario, traj *dynamo.Trajectory, times []float64) error {
	p := tea.NewProgram(NewReplay(s, traj, times), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
