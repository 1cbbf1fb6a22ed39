package cliview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WorkerProgress is one worker's view of its shard at a point in time.
type WorkerProgress struct {
	WorkerIndex int
	Completed   int
	Total       int
	CurrentCase string
}

// Snapshot is a point-in-time view of the whole experiment run, pushed to
// the dashboard at a fixed interval by the `run` command's poller, which
// builds it from the checkpoint shards on disk.
type Snapshot struct {
	RunsCompleted    int64
	RunsFailed       int64
	RunsTotal        int64
	ClaimsSatisfied  int
	ClaimsViolated   int
	ClaimsTotal      int
	Workers          []WorkerProgress
}

type keyMap struct {
	Quit key.Binding
}

var dashboardKeys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type snapshotMsg Snapshot

type doneMsg struct{}

// DashboardModel is the Bubble Tea model backing `graphbench run --tui`.
type DashboardModel struct {
	snapshots <-chan Snapshot
	done      <-chan struct{}
	latest    Snapshot
	bars      map[int]progress.Model
	width     int
	finished  bool
	quitting  bool
}

// NewDashboardModel creates a dashboard fed by snapshots until either the
// channel closes or done fires.
func NewDashboardModel(snapshots <-chan Snapshot, done <-chan struct{}) DashboardModel {
	return DashboardModel{
		snapshots: snapshots,
		done:      done,
		bars:      make(map[int]progress.Model),
		width:     80,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), waitForDone(m.done))
}

func waitForSnapshot(ch <-chan Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return doneMsg{}
		}
		return snapshotMsg(s)
	}
}

func waitForDone(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return doneMsg{}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, dashboardKeys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case snapshotMsg:
		m.latest = Snapshot(msg)
		for _, w := range m.latest.Workers {
			if _, ok := m.bars[w.WorkerIndex]; !ok {
				bar := progress.New(progress.WithDefaultGradient())
				m.bars[w.WorkerIndex] = bar
			}
		}
		return m, waitForSnapshot(m.snapshots)

	case doneMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("graphbench — live run"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %d/%d   %s %d   %s %d\n\n",
		LabelStyle.Render("runs:"), m.latest.RunsCompleted, m.latest.RunsTotal,
		LabelStyle.Render("failed:"), m.latest.RunsFailed,
		LabelStyle.Render("claims ok:"), m.latest.ClaimsSatisfied))

	for _, w := range m.latest.Workers {
		bar, ok := m.bars[w.WorkerIndex]
		if !ok {
			bar = progress.New(progress.WithDefaultGradient())
			m.bars[w.WorkerIndex] = bar
		}
		pct := 0.0
		if w.Total > 0 {
			pct = float64(w.Completed) / float64(w.Total)
		}
		label := fmt.Sprintf("worker %02d", w.WorkerIndex)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
			LabelStyle.Width(12).Render(label),
			bar.ViewAs(pct),
			"  ", ValueStyle.Render(fmt.Sprintf("%d/%d %s", w.Completed, w.Total, w.CurrentCase)),
		))
		b.WriteString("\n")
	}

	if m.finished {
		b.WriteString("\n")
		b.WriteString(BoxStyle.Render(fmt.Sprintf(
			"claims satisfied: %d   claims violated: %d   total claims: %d",
			m.latest.ClaimsSatisfied, m.latest.ClaimsViolated, m.latest.ClaimsTotal)))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("press q or ctrl+c to quit"))
	return b.String()
}

// Run starts the dashboard program, blocking until the run finishes or the
// user quits.
func Run(snapshots <-chan Snapshot, done <-chan struct{}) error {
	model := NewDashboardModel(snapshots, done)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
