package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/craabreu/atomsmm/internal/config"
	"github.com/craabreu/atomsmm/internal/sim"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a simulator in the background of a terminal view showing the
// running energy trace.
type Model struct {
	sim           *sim.Simulator
	cfg           *config.Config
	stepsPerFrame int
	initialEnergy float64
	energyHistory []float64
	running       bool
	err           error
}

func NewModel(s *sim.Simulator, cfg *config.Config, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	initial := s.System().TotalEnergy()
	return Model{
		sim:           s,
		cfg:           cfg,
		stepsPerFrame: stepsPerFrame,
		initialEnergy: initial,
		energyHistory: append(make([]float64, 0, historyCapacity), initial),
		running:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}

	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerFrame; i++ {
				if err := m.sim.StepOnce(); err != nil {
					m.err = err
					break
				}
			}
			m.energyHistory = append(m.energyHistory, m.sim.System().TotalEnergy())
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("atomsmm · %s on %s", m.cfg.Scheme, m.cfg.Model)))
	b.WriteString("\n")

	sys := m.sim.System()
	kinetic := sys.KineticEnergy()
	total := sys.TotalEnergy()

	stats := []string{
		statLine("time", fmt.Sprintf("%.4f", m.sim.Time())),
		statLine("step size", fmt.Sprintf("%g", m.cfg.Dt)),
		statLine("total energy", fmt.Sprintf("%.6f", total)),
		statLine("kinetic", fmt.Sprintf("%.6f", kinetic)),
		statLine("potential", fmt.Sprintf("%.6f", total-kinetic)),
	}
	if m.initialEnergy != 0 {
		drift := (total - m.initialEnergy) / m.initialEnergy
		stats = append(stats, statLine("rel. drift", fmt.Sprintf("%+.2e", drift)))
	}
	if !m.running {
		stats = append(stats, pausedStyle.Render("paused"))
	}
	if m.err != nil {
		stats = append(stats, pausedStyle.Render("error: "+m.err.Error()))
	}
	b.WriteString(statsStyle.Render(strings.Join(stats, "\n")))
	b.WriteString("\n")

	if len(m.energyHistory) > 1 {
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(10),
			asciigraph.Width(64),
			asciigraph.Caption("total energy"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause · q quit"))
	b.WriteString("\n")
	return b.String()
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// Run blocks on the live view until the user quits.
func Run(s *sim.Simulator, cfg *config.Config, stepsPerFrame int) error {
	p := tea.NewProgram(NewModel(s, cfg, stepsPerFrame))
	_, err := p.Run()
	return err
}
