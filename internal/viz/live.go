package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	canvasWidth   = 60
	canvasHeight  = 24
	trailCapacity = 400
	energyPoints  = 200
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
)

type TickMsg time.Time

// LiveModel steps a simulator in a terminal and draws the population through
// a rotatable camera, leaving a short trail behind each body.
type LiveModel struct {
	sim           *sim.Simulator
	initial       []*dynamo.Body
	cfg           sim.Config
	stepsPerFrame int
	frameEnd      int

	canvas  *Canvas
	camera  *Camera
	extent  float64
	theme   Theme
	trails  map[dynamo.BodyID][]dynamo.Vec3
	colors  map[dynamo.BodyID]int
	energy  []float64
	merges  int
	running bool
	err     error
	showL   bool
}

// NewLiveModel starts a simulation of bodies under cfg, advancing
// stepsPerFrame steps per frame.
func NewLiveModel(bodies []*dynamo.Body, cfg sim.Config, stepsPerFrame int) (*LiveModel, error) {
	m := &LiveModel{
		initial:       dynamo.CloneBodies(bodies),
		cfg:           cfg,
		stepsPerFrame: max(stepsPerFrame, 1),
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        NewCamera(),
		theme:         CurrentTheme,
		showL:         true,
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LiveModel) reset() error {
	s := sim.New()
	s.AddObserver(m)
	if err := s.Start(m.initial, m.cfg); err != nil {
		return err
	}

	m.sim = s
	m.extent = 1.2 * Extent(m.initial)
	m.trails = make(map[dynamo.BodyID][]dynamo.Vec3)
	m.colors = make(map[dynamo.BodyID]int)
	m.energy = m.energy[:0]
	m.merges = 0
	m.frameEnd = 0
	m.err = nil
	m.running = true

	m.record(s.Bodies())
	return nil
}

// OnStep records trails and energy once per frame, at the frame's last step.
func (m *LiveModel) OnStep(step int, bodies []*dynamo.Body) {
	if step == m.frameEnd {
		m.record(bodies)
	}
}

// OnMerge starts a fresh trail for the merged body.
func (m *LiveModel) OnMerge(ev sim.MergeEvent) {
	m.merges++
	for _, id := range ev.Sources {
		delete(m.trails, id)
	}
}

func (m *LiveModel) record(bodies []*dynamo.Body) {
	for _, b := range bodies {
		if _, ok := m.colors[b.ID]; !ok {
			m.colors[b.ID] = len(m.colors)
		}
		trail := append(m.trails[b.ID], b.Position)
		if len(trail) > trailCapacity {
			trail = trail[len(trail)-trailCapacity:]
		}
		m.trails[b.ID] = trail
	}

	m.energy = append(m.energy, physics.Energy(bodies, m.cfg.G))
	if len(m.energy) > energyPoints {
		m.energy = m.energy[len(m.energy)-energyPoints:]
	}
}

func (m *LiveModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "left", "h":
			m.camera.Turn(-0.1, 0)
		case "right", "l":
			m.camera.Turn(0.1, 0)
		case "up", "k":
			m.camera.Turn(0, 0.1)
		case "down", "j":
			m.camera.Turn(0, -0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "0":
			m.camera.Reset()
		case "t":
			m.theme = NextTheme(m.theme)
		case "L":
			m.showL = !m.showL
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance takes up to stepsPerFrame steps, stopping at the end of the run or
// on the first error.
func (m *LiveModel) advance() {
	m.frameEnd = min(m.sim.StepIndex()+m.stepsPerFrame, m.cfg.Steps-1)
	for !m.sim.Done() && m.sim.StepIndex() < m.frameEnd {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.running = false
			return
		}
	}
	if m.sim.Done() {
		m.running = false
	}
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	w, h := m.canvas.PixelSize()

	for id, trail := range m.trails {
		color := m.theme.BodyColor(m.colors[id])
		px, py, prevOK := 0, 0, false
		for _, p := range trail {
			x, y, ok := m.camera.Project(p, m.extent, w, h)
			if ok && prevOK {
				m.canvas.Line(px, py, x, y, color)
			} else if ok {
				m.canvas.Set(x, y, color)
			}
			px, py, prevOK = x, y, ok
		}
	}

	if m.showL {
		l := physics.TotalAngularMomentum(m.sim.Bodies())
		if mag := l.Magnitude(); mag > 0 {
			tip := l.Scale(0.5 * m.extent / mag)
			x0, y0, ok0 := m.camera.Project(dynamo.Vec3{}, m.extent, w, h)
			x1, y1, ok1 := m.camera.Project(tip, m.extent, w, h)
			if ok0 && ok1 {
				m.canvas.Line(x0, y0, x1, y1, m.theme.Warning)
			}
		}
	}
}

func (m *LiveModel) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(Title.Foreground(m.theme.Primary).Render("GRAVSIM LIVE") + "\n")

	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("STOPPED") + "\n\n")
	case m.sim.Done():
		s.WriteString(StatusPaused.Render("FINISHED") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	bodies := m.sim.Bodies()
	step := m.sim.StepIndex()
	s.WriteString(row("step", fmt.Sprintf("%d / %d", step, m.cfg.Steps-1)))
	s.WriteString(row("time", fmt.Sprintf("%.3e s", float64(step)*m.cfg.TimeStep)))
	s.WriteString(row("bodies", fmt.Sprint(len(bodies))))
	s.WriteString(row("merges", fmt.Sprint(m.merges)))
	s.WriteString(row("total mass", fmt.Sprintf("%.4e kg", physics.TotalMass(bodies))))
	s.WriteString(row("L", vec(physics.TotalAngularMomentum(bodies))))
	s.WriteString(row("zoom", fmt.Sprintf("%.2fx", m.camera.Zoom)))

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("total energy (J)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(Sparkline(m.energy, 32) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Width(40).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit T:Theme\n←→↑↓:Rotate +/-:Zoom 0:Front L:Toggle L"))

	canvasView := canvasStyle.Render(m.canvas.Render())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// RunLive runs the live view until the user quits.
func RunLive(bodies []*dynamo.Body, cfg sim.Config, stepsPerFrame int) error {
	m, err := NewLiveModel(bodies, cfg, stepsPerFrame)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
