package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quietfall/gainbot/internal/shared"
	"github.com/quietfall/gainbot/internal/tasks"
)

const pollInterval = 500 * time.Millisecond

// keyMap defines the key bindings for the watch view.
type keyMap struct {
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.quit}}
}

type tickMsg time.Time

// StatusModel watches a running recalculation job until it finishes.
type StatusModel struct {
	engine *tasks.Engine

	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap

	snap     tasks.Snapshot
	hasSnap  bool
	finished bool
	width    int
}

// NewStatusModel creates a watch model over the given engine.
func NewStatusModel(engine *tasks.Engine) *StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.ok

	return &StatusModel{
		engine:  engine,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the spinner and the polling timer.
func (m *StatusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles incoming messages and updates the model state.
func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		snap, running := m.engine.Snapshot()
		if !running {
			m.finished = true
			return m, tea.Quit
		}
		m.snap = snap
		m.hasSnap = true
		return m, tick()
	}

	return m, nil
}

// View renders the live job status.
func (m *StatusModel) View() string {
	if m.finished {
		return styles.ok.Render("Recalculation finished.") + "\n"
	}
	if !m.hasSnap {
		return fmt.Sprintf("%s Waiting for job status...\n", m.spinner.View())
	}

	percent := 0.0
	if m.snap.Estimated > 0 {
		percent = float64(m.snap.Analyzed()) / float64(m.snap.Estimated)
		if percent > 1 {
			percent = 1
		}
	}

	eta := "N/A"
	if d, ok := m.snap.ETA(); ok {
		eta = shared.FormatDuration(d)
	}

	view := styles.title.Render("Gain Recalculation") + "\n"
	view += fmt.Sprintf("%s analysed %d of ~%d candidates\n",
		m.spinner.View(), m.snap.Analyzed(), m.snap.Estimated)
	view += m.bar.ViewAs(percent) + "\n\n"
	view += fmt.Sprintf("scanned   %d/%d entries\n", m.snap.Scanned, m.snap.Total)
	view += fmt.Sprintf("updated   %s\n", styles.ok.Render(fmt.Sprintf("%d", m.snap.Succeeded)))
	view += fmt.Sprintf("failed    %s\n", styles.err.Render(fmt.Sprintf("%d", m.snap.Failed)))
	view += fmt.Sprintf("rate      %.1f/min\n", m.snap.Throughput())
	view += fmt.Sprintf("eta       %s\n", eta)
	view += fmt.Sprintf("elapsed   %s\n\n", shared.FormatDuration(m.snap.Elapsed))
	view += m.help.View(m.keys)
	view += "\n"

	return view
}

// Run starts the bubbletea program and blocks until the job finishes or
// the operator quits.
func Run(engine *tasks.Engine) error {
	_, err := tea.NewProgram(NewStatusModel(engine)).Run()
	return err
}
