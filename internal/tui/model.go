// Package tui renders the kanban board in the terminal.
package tui

import (
	"context"
	"io"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/otavio/quadro/internal/board"
	"github.com/otavio/quadro/internal/model"
	"github.com/otavio/quadro/internal/notify"
)

// SearchDebounce is how long typing must pause before the filter applies.
const SearchDebounce = 300 * time.Millisecond

const noticeRefresh = time.Second

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeAdd
	modeConfirmDelete
)

// Option configures a Model.
type Option func(*Model)

// WithProject limits the board to one project.
func WithProject(id string) Option {
	return func(m *Model) { m.project = id }
}

// WithClock sets the time source used to expire notifications.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// Model is the bubbletea model of the board.
type Model struct {
	board *board.Board
	notes *notify.Recorder
	now   func() time.Time

	project string
	column  int
	cursor  []int

	mode      mode
	query     string // as typed
	filter    string // applied after the debounce
	searchSeq int
	input     string
	addType   int    // index into model.TaskTypes
	addPrio   int    // index into model.Priorities
	pending   string // task awaiting delete confirmation

	width  int
	height int
}

type searchMsg struct{ seq int }

type noticeTickMsg time.Time

// New returns a board model. notes should be the notifier the board reports to.
func New(b *board.Board, notes *notify.Recorder, opts ...Option) *Model {
	m := &Model{
		board:  b,
		notes:  notes,
		now:    time.Now,
		cursor: make([]int, len(model.Statuses)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the board and blocks until the user quits.
func Run(ctx context.Context, m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return noticeTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case searchMsg:
		if msg.seq == m.searchSeq {
			m.filter = m.query
			m.clamp()
		}
		return m, nil
	case noticeTickMsg:
		return m, noticeTick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		switch m.mode {
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeAdd:
			m.updateAdd(msg)
			return m, nil
		case modeConfirmDelete:
			m.updateConfirm(msg)
			return m, nil
		}
		return m, m.updateNormal(msg)
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return m.quit()
	case "left", "h":
		m.column = max(m.column-1, 0)
	case "right", "l":
		m.column = min(m.column+1, len(model.Statuses)-1)
	case "up", "k":
		m.cursor[m.column] = max(m.cursor[m.column]-1, 0)
	case "down", "j":
		m.cursor[m.column]++
		m.clamp()
	case "<", "H", "shift+left":
		m.moveSelected(-1)
	case ">", "L", "shift+right":
		m.moveSelected(1)
	case "/", "ctrl+k":
		m.mode = modeSearch
	case "a", "ctrl+n":
		m.mode = modeAdd
		m.input = ""
	case "d", "x":
		if t, ok := m.Selected(); ok {
			m.pending = t.ID
			m.mode = modeConfirmDelete
		}
	case "p":
		m.cycleProject()
	case "s":
		if m.board.Save() {
			m.notes.Notify("Changes saved", notify.Info, 0)
		}
	case "esc":
		m.query, m.filter = "", ""
		m.searchSeq++
		m.clamp()
	}
	return nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeNormal
		m.searchSeq++
		m.filter = m.query
		m.clamp()
		return nil
	case tea.KeyEsc:
		m.mode = modeNormal
		m.query, m.filter = "", ""
		m.searchSeq++
		m.clamp()
		return nil
	case tea.KeyBackspace:
		m.query = dropLastRune(m.query)
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
	default:
		return nil
	}
	m.searchSeq++
	return debounce(m.searchSeq)
}

func (m *Model) updateAdd(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeNormal
		_, _ = m.board.AddTask(board.TaskFields{
			ProjectID: m.project,
			Text:      m.input,
			Type:      string(model.TaskTypes[m.addType]),
			Priority:  string(model.Priorities[m.addPrio]),
		})
		m.input = ""
		m.clamp()
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input = ""
	case tea.KeyTab:
		m.addType = (m.addType + 1) % len(model.TaskTypes)
	case tea.KeyShiftTab:
		m.addPrio = (m.addPrio + 1) % len(model.Priorities)
	case tea.KeyBackspace:
		m.input = dropLastRune(m.input)
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
}

func (m *Model) updateConfirm(msg tea.KeyMsg) {
	id := m.pending
	m.pending = ""
	m.mode = modeNormal
	switch msg.String() {
	case "y", "Y", "enter":
		_, _ = m.board.DeleteTask(id)
		m.clamp()
	}
}

func (m *Model) quit() tea.Cmd {
	m.board.Save()
	return tea.Quit
}

// moveSelected moves the selected task delta columns and keeps it selected.
func (m *Model) moveSelected(delta int) {
	t, ok := m.Selected()
	if !ok {
		return
	}
	target := m.column + delta
	if target < 0 || target >= len(model.Statuses) {
		return
	}
	moved, _ := m.board.UpdateTaskStatus(t.ID, model.Statuses[target])
	if !moved {
		return
	}
	m.column = target
	for i, ct := range m.ColumnTasks(model.Statuses[target]) {
		if ct.ID == t.ID {
			m.cursor[target] = i
			break
		}
	}
	m.clamp()
}

func (m *Model) cycleProject() {
	projects := m.board.SortedProjects()
	if len(projects) == 0 {
		m.project = ""
		return
	}
	next := 0
	for i, p := range projects {
		if p.ID == m.project {
			next = i + 1
			break
		}
	}
	if next >= len(projects) {
		m.project = ""
	} else {
		m.project = projects[next].ID
	}
	m.clamp()
}

// ColumnTasks returns the tasks shown in a status column, newest first.
func (m *Model) ColumnTasks(status model.Status) []model.Task {
	var source []model.Task
	if m.filter != "" {
		source = m.board.SearchTasks(m.filter)
	} else {
		source = m.board.Tasks()
	}
	out := []model.Task{}
	for _, t := range source {
		if t.Status != status {
			continue
		}
		if m.project != "" && t.ProjectID != m.project {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Selected returns the task under the cursor.
func (m *Model) Selected() (model.Task, bool) {
	tasks := m.ColumnTasks(model.Statuses[m.column])
	i := m.cursor[m.column]
	if i < 0 || i >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[i], true
}

func (m *Model) clamp() {
	for i, st := range model.Statuses {
		n := len(m.ColumnTasks(st))
		if m.cursor[i] >= n {
			m.cursor[i] = n - 1
		}
		if m.cursor[i] < 0 {
			m.cursor[i] = 0
		}
	}
}

func debounce(seq int) tea.Cmd {
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return searchMsg{seq: seq}
	})
}

func noticeTick() tea.Cmd {
	return tea.Tick(noticeRefresh, func(t time.Time) tea.Msg {
		return noticeTickMsg(t)
	})
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
