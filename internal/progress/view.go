// Package progress shows a live view of a testalot run sequence.
package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/testalot/pkg/testrun"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type eventMsg testrun.Event
type doneMsg struct{}

// Model is the bubbletea model of the run view.
type Model struct {
	spinner  spinner.Model
	bar      progress.Model
	events   <-chan testrun.Event
	cancel   context.CancelFunc
	state    testrun.Progress
	run      int
	lastLine string
	failures int
	width    int
	done     bool
}

// New returns a view of total runs fed from events. cancel is called when
// the user interrupts the view.
func New(total int, events <-chan testrun.Event, cancel context.CancelFunc) Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	return Model{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		events:  events,
		cancel:  cancel,
		state:   testrun.NewProgress(total),
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(evt)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-40, 10), 60)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case eventMsg:
		m.apply(testrun.Event(msg))
		return m, m.listen()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(evt testrun.Event) {
	switch evt.Type {
	case testrun.EventRunStarted:
		m.run = evt.Run
		m.state = evt.Progress
		m.lastLine = ""
	case testrun.EventOutput:
		if line := strings.TrimSpace(evt.Line); line != "" {
			m.lastLine = line
		}
	case testrun.EventRunCompleted:
		m.state = evt.Progress
		if evt.ExitCode != 0 {
			m.failures++
		}
	}
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	var sb strings.Builder
	run := max(m.run, 1)
	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("Run %d/%d", run, m.state.Total)))
	sb.WriteString("  ")
	sb.WriteString(m.bar.ViewAs(m.state.Fraction()))
	if eta := m.state.ETA(); eta > 0 {
		sb.WriteString(mutedStyle.Render("  ETA " + eta.Round(time.Second).String()))
	}
	if m.failures > 0 {
		sb.WriteString(failStyle.Render(fmt.Sprintf("  %d failing runs", m.failures)))
	}
	sb.WriteString("\n")
	if m.lastLine != "" {
		sb.WriteString("  ")
		sb.WriteString(mutedStyle.Render(runewidth.Truncate(m.lastLine, max(m.width-4, 20), "...")))
	}
	sb.WriteString("\n")
	return sb.String()
}

// Run shows the view on out until events is closed or ctx ends.
func Run(ctx context.Context, total int, events <-chan testrun.Event, cancel context.CancelFunc, out io.Writer) error {
	program := tea.NewProgram(New(total, events, cancel),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
