// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/night"
	"github.com/litescript/ls-nightplan/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewNight ViewMode = iota
	ViewTarget
	ViewWhenObs
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates and the nightly recompute
	// gate.
	TickMsg time.Time

	// whenObsMsg carries the async observability computation result.
	whenObsMsg struct {
		target string
		stats  []night.DayStats
		err    error
	}
)

// Shared styles.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9D4EDD")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	rowStyle = lipgloss.NewStyle()

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// tickInterval drives the now-marker and the date-rollover check.
const tickInterval = 30 * time.Second

// whenObsNights is how many nights the observability view spans.
const whenObsNights = 30

// Model is the root Bubble Tea model.
type Model struct {
	obs     *night.Observer
	targets []*night.Trajectory
	bodies  []ephem.Body

	viewMode ViewMode
	cursor   int
	width    int
	height   int
	ready    bool

	whenObs     []night.DayStats
	whenObsFor  string
	whenObsBusy bool

	err error
}

// New creates the root UI model for a processed observer and its
// sampled targets.
func New(obs *night.Observer, bodies []ephem.Body, targets []*night.Trajectory) Model {
	return Model{
		obs:     obs,
		bodies:  bodies,
		targets: targets,
	}
}

// Init starts the periodic tick.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		// The recompute gate makes this a no-op until the calendar day
		// rolls over.
		changed, err := m.obs.UpdateDate(night.DateOptions{Grid: m.obs.Grid})
		if err != nil {
			m.err = err
		} else if changed {
			m.err = m.resample()
		}
		return m, tickCmd()

	case whenObsMsg:
		m.whenObsBusy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.whenObs = msg.stats
		m.whenObsFor = msg.target
		m.viewMode = ViewWhenObs
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.viewMode != ViewNight {
			m.viewMode = ViewNight
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.targets)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.targets) > 0 {
			m.viewMode = ViewTarget
		}
	case "n":
		m.viewMode = ViewNight
	case "w":
		if len(m.bodies) > 0 && !m.whenObsBusy {
			m.whenObsBusy = true
			return m, m.whenObsCmd(m.bodies[m.cursor])
		}
	}
	return m, nil
}

// whenObsCmd computes observability statistics off the update loop.
func (m Model) whenObsCmd(b ephem.Body) tea.Cmd {
	obs := m.obs
	from := m.obs.Date.Truncate(24 * time.Hour)
	grid := m.obs.Grid
	return func() tea.Msg {
		stats, err := obs.WhenObs(b, from, from.AddDate(0, 0, whenObsNights), 1, grid)
		return whenObsMsg{target: b.Name, stats: stats, err: err}
	}
}

// resample recomputes every target trajectory against the new night.
func (m *Model) resample() error {
	for i, b := range m.bodies {
		tr, err := m.obs.Sample(b)
		if err != nil {
			return fmt.Errorf("resample %s: %w", b.Name, err)
		}
		m.targets[i] = tr
	}
	return nil
}

// View renders the active view with a shared header and footer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	switch m.viewMode {
	case ViewTarget:
		b.WriteString(m.renderTargetView())
	case ViewWhenObs:
		b.WriteString(m.renderWhenObsView())
	default:
		b.WriteString(m.renderNightView())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	left := titleStyle.Render("ls-nightplan " + version.Version)
	right := dimStyle.Render(fmt.Sprintf("%s — night of %s",
		m.obs.Site.Name, m.obs.LocalNight.Format("2006-01-02")))
	return left + "  " + right
}

func (m Model) renderFooter() string {
	keys := "↑/↓ select · enter target · w observability · n night · q quit"
	if m.whenObsBusy {
		keys = "computing observability… · " + keys
	}
	return dimStyle.Render(keys)
}
