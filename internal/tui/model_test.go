package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otavio/quadro/internal/board"
	"github.com/otavio/quadro/internal/model"
	"github.com/otavio/quadro/internal/notify"
)

type countingSaver struct{ calls int }

func (s *countingSaver) Save([]model.Project, []model.Task) bool {
	s.calls++
	return true
}

func setup(t *testing.T) (*Model, *board.Board, *countingSaver, *notify.Recorder) {
	t.Helper()
	saver := &countingSaver{}
	rec := notify.NewRecorder()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := board.New(saver, rec, board.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))

	p, err := b.CreateProject(board.ProjectFields{Name: "Backend"})
	require.NoError(t, err)
	_, err = b.AddMultipleTasks(p.ID, "Fix login bug\nWrite docs\nAdd metrics", "feature", "")
	require.NoError(t, err)

	return New(b, rec), b, saver, rec
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestColumnTasksNewestFirst(t *testing.T) {
	m, _, _, _ := setup(t)

	todo := m.ColumnTasks(model.StatusTodo)
	require.Len(t, todo, 3)
	// the batch shares one timestamp, so creation order is kept
	assert.Equal(t, "Fix login bug", todo[0].Text)
	assert.Empty(t, m.ColumnTasks(model.StatusDone))
}

func TestNavigationAndMove(t *testing.T) {
	m, b, _, rec := setup(t)

	send(m, "down")
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Write docs", sel.Text)

	send(m, ">")
	assert.Equal(t, 1, m.column, "cursor follows the moved task")
	moved, ok := b.Task(sel.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusInProgress, moved.Status)
	last, _ := rec.Last()
	assert.Equal(t, `Task "Write docs..." moved to in progress`, last.Message)

	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, moved.ID, sel.ID)

	send(m, "<")
	assert.Equal(t, 0, m.column)
	back, _ := b.Task(sel.ID)
	assert.Equal(t, model.StatusTodo, back.Status)

	send(m, "left")
	assert.Equal(t, 0, m.column)
	send(m, "right", "right", "right", "right")
	assert.Equal(t, len(model.Statuses)-1, m.column)

	_, ok = m.Selected()
	assert.False(t, ok, "done column is empty")
	send(m, ">")
	assert.Equal(t, len(model.Statuses)-1, m.column)
}

func TestSearchDebounce(t *testing.T) {
	m, _, _, _ := setup(t)

	send(m, "/")
	assert.Equal(t, modeSearch, m.mode)

	cmd := send(m, "b", "u", "g")
	require.NotNil(t, cmd)
	assert.Equal(t, "bug", m.query)
	assert.Empty(t, m.filter, "filter waits for the debounce")

	m.Update(searchMsg{seq: m.searchSeq - 1})
	assert.Empty(t, m.filter, "stale ticks are ignored")

	m.Update(searchMsg{seq: m.searchSeq})
	assert.Equal(t, "bug", m.filter)
	todo := m.ColumnTasks(model.StatusTodo)
	require.Len(t, todo, 1)
	assert.Equal(t, "Fix login bug", todo[0].Text)

	send(m, "backspace")
	assert.Equal(t, "bu", m.query)
	send(m, "esc")
	assert.Equal(t, modeNormal, m.mode)
	assert.Empty(t, m.query)
	assert.Empty(t, m.filter)
	assert.Len(t, m.ColumnTasks(model.StatusTodo), 3)
}

func TestSearchEnterAppliesImmediately(t *testing.T) {
	m, _, _, _ := setup(t)
	send(m, "/", "d", "o", "c", "s", "enter")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "docs", m.filter)
	assert.Len(t, m.ColumnTasks(model.StatusTodo), 1)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, b, _, _ := setup(t)

	send(m, "d", "n")
	assert.Len(t, b.Tasks(), 3)
	assert.Equal(t, modeNormal, m.mode)

	sel, _ := m.Selected()
	send(m, "d", "y")
	assert.Len(t, b.Tasks(), 2)
	_, ok := b.Task(sel.ID)
	assert.False(t, ok)
}

func TestAddTask(t *testing.T) {
	m, b, _, rec := setup(t)

	send(m, "a", "N", "e", "w")
	assert.Equal(t, "New", m.input)
	send(m, "enter")
	assert.Len(t, b.Tasks(), 3, "no project selected")
	last, _ := rec.Last()
	assert.Equal(t, "Please select a project", last.Message)

	send(m, "p")
	require.NotEmpty(t, m.project)
	send(m, "a", "N", "e", "w", "enter")
	assert.Len(t, b.Tasks(), 4)
	assert.Len(t, m.ColumnTasks(model.StatusTodo), 4)
	assert.Equal(t, "New", m.ColumnTasks(model.StatusTodo)[0].Text)

	send(m, "p")
	assert.Empty(t, m.project, "cycling past the last project shows all")
}

func TestAddTaskChoosesTypeAndPriority(t *testing.T) {
	m, _, _, _ := setup(t)
	send(m, "p", "a")
	assert.Contains(t, m.View(), "[Feature · low]")

	send(m, "tab", "shift+tab", "shift+tab")
	assert.Contains(t, m.View(), "[Bug Fix · high]")

	send(m, "C", "r", "a", "s", "h", "enter")
	added := m.ColumnTasks(model.StatusTodo)[0]
	assert.Equal(t, "Crash", added.Text)
	assert.Equal(t, model.TypeBug, added.Type)
	assert.Equal(t, model.PriorityHigh, added.Priority)

	// The choice sticks for the next task; cycling wraps around.
	send(m, "a", "tab", "tab", "tab", "tab", "tab")
	assert.Contains(t, m.View(), "[Feature · high]")
}

func TestQuitSaves(t *testing.T) {
	m, _, saver, _ := setup(t)
	calls := saver.calls

	cmd := send(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, calls+1, saver.calls)

	send(m, "/")
	cmd = send(m, "ctrl+c")
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _, _, _ := setup(t)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})

	out := m.View()
	for _, st := range model.Statuses {
		assert.Contains(t, out, ColumnTitle(st))
	}
	assert.Contains(t, out, "Fix login bug")
	assert.Contains(t, out, "Added 3 tasks")
	assert.Contains(t, out, "q quit")

	send(m, "d")
	assert.Contains(t, m.View(), `Delete task "Fix login bug"?`)
}

func TestNoticesExpire(t *testing.T) {
	m, _, _, _ := setup(t)
	m.now = func() time.Time { return time.Now().Add(time.Minute) }
	assert.NotContains(t, m.View(), "Added 3 tasks")
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
