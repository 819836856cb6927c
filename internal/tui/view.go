package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/otavio/quadro/internal/model"
	"github.com/otavio/quadro/internal/notify"
)

const defaultColumnWidth = 28

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("212"))

	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}

	noticeStyles = map[notify.Severity]lipgloss.Style{
		notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		notify.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// ColumnTitle is the heading of a status column.
func ColumnTitle(st model.Status) string {
	switch st {
	case model.StatusTodo:
		return "To Do"
	case model.StatusInProgress:
		return "In Progress"
	case model.StatusReview:
		return "Review"
	case model.StatusDone:
		return "Done"
	}
	return string(st)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewTitle())
	b.WriteString("\n\n")

	width := m.columnWidth()
	counts := m.board.ColumnCounts()
	columns := make([]string, len(model.Statuses))
	for i, st := range model.Statuses {
		columns[i] = m.viewColumn(i, st, counts[i].Count, counts[i].Percent, width)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")

	b.WriteString(m.viewNotices())
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m *Model) viewTitle() string {
	title := titleStyle.Render("quadro")
	scope := "all projects"
	if m.project != "" {
		if p, ok := m.board.Project(m.project); ok {
			stats := m.board.ProjectStats(p.ID)
			scope = fmt.Sprintf("%s  %d/%d done (%d%%)", p.Name, stats.Completed, stats.Total, stats.Progress)
		}
	}
	line := title + "  " + dimStyle.Render(scope)
	if m.filter != "" {
		line += "  " + promptStyle.Render(fmt.Sprintf("filter: %q", m.filter))
	}
	return line
}

func (m *Model) viewColumn(index int, st model.Status, count, percent, width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(ColumnTitle(st)))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %d · %d%%", count, percent)))
	b.WriteString("\n")

	tasks := m.ColumnTasks(st)
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("(empty)"))
	}
	for i, t := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.viewTask(t, width, index == m.column && i == m.cursor[index]))
	}

	style := columnStyle
	if index == m.column {
		style = activeColumnStyle
	}
	return style.Width(width).Render(b.String())
}

func (m *Model) viewTask(t model.Task, width int, selected bool) string {
	marker := priorityStyles[t.Priority].Render(priorityMarker(t.Priority))
	text := truncate(t.Text, width-4)
	if selected {
		text = selectedStyle.Render(text)
	}
	line := marker + " " + text
	meta := t.Type.Label()
	if t.AssignedTo != "" {
		meta += " @" + t.AssignedTo
	}
	return line + "\n  " + dimStyle.Render(truncate(meta, width-4))
}

func (m *Model) viewNotices() string {
	if m.notes == nil {
		return ""
	}
	var b strings.Builder
	for _, e := range m.notes.Visible(m.now()) {
		b.WriteString(noticeStyles[e.Severity].Render(e.Severity.Icon() + " " + e.Message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewFooter() string {
	switch m.mode {
	case modeSearch:
		return promptStyle.Render("search: ") + m.query + "█\n"
	case modeAdd:
		kind := fmt.Sprintf("[%s · %s] ", model.TaskTypes[m.addType].Label(), model.Priorities[m.addPrio])
		return promptStyle.Render("new task: ") + dimStyle.Render(kind) + m.input + "█  " + dimStyle.Render("tab type  shift+tab priority") + "\n"
	case modeConfirmDelete:
		t, _ := m.board.Task(m.pending)
		return promptStyle.Render(fmt.Sprintf("Delete task %q? (y/N)", t.Text)) + "\n"
	}
	return dimStyle.Render("←/→ column  ↑/↓ task  </> move  / search  a add  d delete  p project  s save  q quit") + "\n"
}

func (m *Model) columnWidth() int {
	if m.width <= 0 {
		return defaultColumnWidth
	}
	w := m.width/len(model.Statuses) - 4
	if w < 12 {
		return 12
	}
	return w
}

func priorityMarker(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!"
	case model.PriorityMedium:
		return "! "
	}
	return "· "
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
