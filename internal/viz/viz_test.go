package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

func testRun(t *testing.T, steps int) (*config.Scenario, *dynamo.Trajectory, []float64) {
	t.Helper()
	s, err := config.Resolve(config.BetelgeuseVisit, nil)
	if err != nil {
		t.Fatal(err)
	}
	traj := dynamo.NewTrajectory(dynamo.PositionDim, steps)
	times := make([]float64, steps)
	for i := 0; i < steps; i++ {
		a := float64(i) / 10
		x := dynamo.State{0, 0, 5 * math.Cos(a), 5 * math.Sin(a), -60 + float64(i), 30}
		if err := traj.Append(x); err != nil {
			t.Fatal(err)
		}
		times[i] = float64(i+1) * 0.01
	}
	return s, traj, times
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, 0)
	c.Set(3, 3, 1)
	c.Set(-1, 0, 0)
	c.Set(10, 0, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
	if c.Layer[0][1] != 1 {
		t.Errorf("layer = %d", c.Layer[0][1])
	}

	c.Clear()
	if c.String() != "⠀⠀\n" {
		t.Errorf("cleared canvas = %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != 0x2809 {
			t.Errorf("cell %d = %U, want top row set", col, c.Grid[0][col])
		}
	}
}

func TestCanvasRenderPlainForUnstyledLayers(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0, 5)
	if got := c.Render([]lipgloss.Style{lipgloss.NewStyle()}); got != "⠁\n" {
		t.Errorf("Render() = %q", got)
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Replay, msg tea.Msg) (Replay, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Replay), cmd
}

func TestReplayPlayback(t *testing.T) {
	s, traj, times := testRun(t, 50)
	m := NewReplay(s, traj, times)

	if !m.Running() || m.Speed() != 1 {
		t.Fatalf("expected playing at speed 1")
	}

	m, cmd := update(m, TickMsg{})
	if cmd == nil || m.Head() != 1 {
		t.Errorf("tick should advance and reschedule, head = %d", m.Head())
	}

	m, _ = update(m, key("+"))
	m, _ = update(m, key("+"))
	if m.Speed() != 4 {
		t.Errorf("speed = %d, want 4", m.Speed())
	}
	m, _ = update(m, key("-"))
	if m.Speed() != 2 {
		t.Errorf("speed = %d, want 2", m.Speed())
	}

	for i := 0; i < 100; i++ {
		m, _ = update(m, TickMsg{})
	}
	if m.Head() != 49 || m.Running() {
		t.Errorf("expected to stop at the last step, head = %d running = %v", m.Head(), m.Running())
	}

	m, _ = update(m, key("r"))
	if m.Head() != 0 || !m.Running() {
		t.Error("restart should rewind and play")
	}

	m, _ = update(m, key(" "))
	if m.Running() {
		t.Error("space should pause")
	}
	m, _ = update(m, TickMsg{})
	if m.Head() != 0 {
		t.Error("paused replay should not advance")
	}

	m, _ = update(m, key("]"))
	if m.Head() != 20 {
		t.Errorf("seek forward: head = %d, want 20", m.Head())
	}
	m, _ = update(m, key("["))
	m, _ = update(m, key("["))
	if m.Head() != 0 {
		t.Errorf("seek back should clamp at 0, head = %d", m.Head())
	}
}

func TestReplayQuit(t *testing.T) {
	s, traj, times := testRun(t, 10)
	_, cmd := update(NewReplay(s, traj, times), key("q"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestReplayView(t *testing.T) {
	s, traj, times := testRun(t, 30)
	m := NewReplay(s, traj, times)
	for i := 0; i < 5; i++ {
		m, _ = update(m, TickMsg{})
	}

	view := m.View()
	for _, want := range []string{"SUN, JUPITER AND BETELGEUSE", "Step", "d12", "Initial conditions:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(m, key("i"))
	if strings.Contains(m.View(), "Initial conditions:") {
		t.Error("info panel should be hidden")
	}
	m, _ = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestPlotCoordinates(t *testing.T) {
	_, traj, _ := testRun(t, 200)
	out, err := PlotCoordinates(traj, []string{"Sun", "Jupiter", "Betelgeuse"}, 60, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x(t) [AU]") || !strings.Contains(out, "y(t) [AU]") {
		t.Errorf("missing captions:\n%s", out)
	}

	short := dynamo.NewTrajectory(dynamo.PositionDim, 1)
	if _, err := PlotCoordinates(short, nil, 60, 8); err == nil {
		t.Error("expected error for a single point")
	}
}

func TestPlotSeparation(t *testing.T) {
	_, traj, _ := testRun(t, 100)
	out, err := PlotSeparation(traj, 0, 1, "d12", 40, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "d12") {
		t.Error("missing caption")
	}
}

func TestDownsample(t *testing.T) {
	values := make([]float64, 101)
	for i := range values {
		values[i] = float64(i)
	}
	got := downsample(values, 11)
	if len(got) != 11 || got[0] != 0 || got[10] != 100 || got[5] != 50 {
		t.Errorf("downsample = %v", got)
	}
	if len(downsample(values, 500)) != 101 {
		t.Error("short input should be returned unchanged")
	}
}
