package cliview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDashboardModel_AppliesSnapshot(t *testing.T) {
	snapshots := make(chan Snapshot, 1)
	done := make(chan struct{})
	m := NewDashboardModel(snapshots, done)

	snap := Snapshot{
		RunsCompleted: 3,
		RunsTotal:     10,
		Workers:       []WorkerProgress{{WorkerIndex: 0, Completed: 3, Total: 5, CurrentCase: "small-sparse"}},
	}

	updated, _ := m.Update(snapshotMsg(snap))
	dm := updated.(DashboardModel)

	if dm.latest.RunsCompleted != 3 {
		t.Errorf("expected runs completed 3, got %d", dm.latest.RunsCompleted)
	}
	if _, ok := dm.bars[0]; !ok {
		t.Error("expected a progress bar to be created for worker 0")
	}
}

func TestDashboardModel_QuitOnKey(t *testing.T) {
	m := NewDashboardModel(make(chan Snapshot), make(chan struct{}))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	dm := updated.(DashboardModel)

	if !dm.quitting {
		t.Error("expected quitting to be true after ctrl+c")
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
}

func TestDashboardModel_DoneMsgMarksFinished(t *testing.T) {
	m := NewDashboardModel(make(chan Snapshot), make(chan struct{}))
	updated, _ := m.Update(doneMsg{})
	dm := updated.(DashboardModel)

	if !dm.finished {
		t.Error("expected finished to be true after doneMsg")
	}
}
