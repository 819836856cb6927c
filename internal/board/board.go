// Package board holds the projects and tasks of a kanban board and every
// operation that changes them.
//
// A Board validates input, mutates its collections, persists the full state
// through a Saver and reports outcomes to a notify.Notifier. Operations are
// serialized by a mutex so a background auto-saver can flush concurrently.
package board

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/otavio/quadro/internal/model"
	"github.com/otavio/quadro/internal/notify"
	"github.com/otavio/quadro/internal/validate"
)

// Saver persists a full snapshot of the board and reports success.
type Saver interface {
	Save(projects []model.Project, tasks []model.Task) bool
}

// Loader supplies the collections a board starts from.
type Loader interface {
	Recover() ([]model.Project, []model.Task)
}

// Board is the in-memory store of projects and tasks.
type Board struct {
	mu       sync.Mutex
	projects []model.Project
	tasks    []model.Task

	saver    Saver
	notifier notify.Notifier
	now      func() time.Time
	newID    func(title string) string
}

// Option configures a Board.
type Option func(*Board)

// WithClock sets the time source used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithIDGenerator sets the function that derives new ids from a title.
func WithIDGenerator(gen func(title string) string) Option {
	return func(b *Board) { b.newID = gen }
}

// New returns an empty board. saver may be nil for a board that never persists.
func New(saver Saver, notifier notify.Notifier, opts ...Option) *Board {
	if notifier == nil {
		notifier = notify.Discard
	}
	b := &Board{
		projects: []model.Project{},
		tasks:    []model.Task{},
		saver:    saver,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:    generateID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the board's collections with those recovered by l.
func (b *Board) Load(l Loader) {
	projects, tasks := l.Recover()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects = projects
	b.tasks = tasks
}

// Save persists the current state. It backs the periodic auto-save and the
// final flush on exit.
func (b *Board) Save() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saver == nil {
		return true
	}
	return b.saver.Save(b.projects, b.tasks)
}

// Snapshot returns copies of both collections.
func (b *Board) Snapshot() ([]model.Project, []model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneProjects(b.projects), cloneTasks(b.tasks)
}

// ProjectFields is the input of the create-project form.
type ProjectFields struct {
	Name        string
	Description string
	Repository  string
	TechStack   string // comma-separated
}

// CreateProject validates fields and appends a new project.
func (b *Board) CreateProject(f ProjectFields) (model.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := strings.TrimSpace(f.Name)
	if name == "" {
		return model.Project{}, b.fail(&validate.Error{Field: "name", Label: "Project name", Message: "Project name is required"})
	}
	techStack := model.SplitList(f.TechStack, ",")
	form := map[string]any{
		"name":        name,
		"description": f.Description,
		"repository":  f.Repository,
		"techStack":   techStack,
	}
	if errs := validate.ValidateForm(form, validate.ProjectSchema); len(errs) > 0 {
		return model.Project{}, b.fail(errors.Join(errs...))
	}

	p := model.NewProject(b.uniqueID(name, b.projectIndex), name, b.now())
	p.Description = strings.TrimSpace(f.Description)
	p.Repository = strings.TrimSpace(f.Repository)
	p.TechStack = techStack
	b.projects = append(b.projects, p)

	if err := b.persist(); err != nil {
		return p.Clone(), err
	}
	b.notifier.Notify(fmt.Sprintf("Project %q created successfully", p.Name), notify.Success, 0)
	return p.Clone(), nil
}

// ProjectUpdate lists the project fields to change. Nil fields are kept.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Repository  *string
	TechStack   *string // comma-separated
}

// UpdateProject validates and merges the given fields into a project.
// The id and creation time never change.
func (b *Board) UpdateProject(id string, u ProjectUpdate) (model.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.projectIndex(id)
	if i < 0 {
		return model.Project{}, b.fail(&NotFoundError{Kind: "project", ID: id})
	}
	p := b.projects[i].Clone()
	form := map[string]any{}
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
		form["name"] = p.Name
	}
	if u.Description != nil {
		p.Description = strings.TrimSpace(*u.Description)
		form["description"] = p.Description
	}
	if u.Repository != nil {
		p.Repository = strings.TrimSpace(*u.Repository)
		form["repository"] = p.Repository
	}
	if u.TechStack != nil {
		p.TechStack = model.SplitList(*u.TechStack, ",")
		form["techStack"] = p.TechStack
	}
	if errs := validate.ValidateForm(form, validate.ProjectSchema); len(errs) > 0 {
		return model.Project{}, b.fail(errors.Join(errs...))
	}

	b.projects[i] = p
	if err := b.persist(); err != nil {
		return p.Clone(), err
	}
	b.notifier.Notify(fmt.Sprintf("Project %q updated", p.Name), notify.Success, 0)
	return p.Clone(), nil
}

// DeleteProject removes a project and every task that belongs to it. It
// reports false without side effects when the project does not exist.
func (b *Board) DeleteProject(id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.projectIndex(id)
	if i < 0 {
		return false, nil
	}
	project := b.projects[i]

	kept := make([]model.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if t.ProjectID != id {
			kept = append(kept, t)
		}
	}
	b.tasks = kept
	b.projects = append(b.projects[:i:i], b.projects[i+1:]...)

	if err := b.persist(); err != nil {
		return true, err
	}
	b.notifier.Notify(fmt.Sprintf("Project %q deleted", project.Name), notify.Success, 0)
	return true, nil
}

// TaskFields is the input of the add-task form.
type TaskFields struct {
	ProjectID string
	Text      string
	Type      string
	Priority  string
}

// AddTask creates a todo task in an existing project. The project, title and
// type are checked in that order and the first missing one is reported.
func (b *Board) AddTask(f TaskFields) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	project, err := b.requireProject(f.ProjectID)
	if err != nil {
		return model.Task{}, b.fail(err)
	}
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return model.Task{}, b.fail(&validate.Error{Field: "text", Label: "Task title", Message: "Task title is required"})
	}
	typ, priority, err := parseTypeAndPriority(f.Type, f.Priority)
	if err != nil {
		return model.Task{}, b.fail(err)
	}

	t := model.NewTask(b.uniqueID(text, b.taskIndex), text, project.ID, typ, priority, b.now())
	b.tasks = append(b.tasks, t)

	if err := b.persist(); err != nil {
		return t.Clone(), err
	}
	b.notifier.Notify(fmt.Sprintf("Task added to project %q", project.Name), notify.Success, 0)
	return t.Clone(), nil
}

// AddMultipleTasks creates one task per non-blank line of text, all sharing
// the same project, type and priority, and persists them once.
func (b *Board) AddMultipleTasks(projectID, text, typ, priority string) ([]model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := model.SplitLines(text)
	if len(lines) == 0 {
		return nil, b.fail(&validate.Error{Field: "tasks", Label: "Tasks", Message: "Please enter at least one task"})
	}
	taskType, prio, err := parseTypeAndPriority(typ, priority)
	if err != nil {
		return nil, b.fail(err)
	}
	project, err := b.requireProject(projectID)
	if err != nil {
		return nil, b.fail(err)
	}

	created := make([]model.Task, 0, len(lines))
	now := b.now()
	for _, line := range lines {
		t := model.NewTask(b.uniqueID(line, b.taskIndex), line, project.ID, taskType, prio, now)
		b.tasks = append(b.tasks, t)
		created = append(created, t.Clone())
	}

	if err := b.persist(); err != nil {
		return created, err
	}
	b.notifier.Notify(fmt.Sprintf("Added %d tasks to %q", len(created), project.Name), notify.Success, 0)
	return created, nil
}

// TaskUpdate lists the task fields to change, as entered in the task form.
// Nil fields are kept.
type TaskUpdate struct {
	Text           *string
	Description    *string
	Status         *string
	Type           *string
	Priority       *string
	EstimatedHours *string
	TestStatus     *string
	AssignedTo     *string
	DueDate        *string
	Labels         *string // comma-separated
	Dependencies   *string // comma-separated
	Commits        *string // newline- or comma-separated
}

// UpdateTask validates the given fields and merges them into the task. The
// first invalid field aborts the update and nothing is changed.
func (b *Board) UpdateTask(id string, u TaskUpdate) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.taskIndex(id)
	if i < 0 {
		return model.Task{}, b.fail(&NotFoundError{Kind: "task", ID: id})
	}
	t := b.tasks[i].Clone()
	if err := applyTaskUpdate(&t, u); err != nil {
		return model.Task{}, b.fail(err)
	}

	b.tasks[i] = t
	if err := b.persist(); err != nil {
		return t.Clone(), err
	}
	b.notifier.Notify("Task updated successfully", notify.Success, 0)
	return t.Clone(), nil
}

func applyTaskUpdate(t *model.Task, u TaskUpdate) error {
	if u.Text != nil {
		text, err := validate.Text(*u.Text, taskRule("text", "Task title", true))
		if err != nil {
			return err
		}
		t.Text = text
	}
	if u.Description != nil {
		t.Description = strings.TrimSpace(*u.Description)
	}
	if u.Status != nil {
		raw, err := validate.Text(*u.Status, validate.Constraints{Field: "status", Label: "Status", Required: true})
		if err != nil {
			return err
		}
		st, err := model.ParseStatus(raw)
		if err != nil {
			return &validate.Error{Field: "status", Label: "Status", Message: err.Error()}
		}
		t.Status = st
	}
	if u.Type != nil {
		raw, err := validate.Text(*u.Type, validate.Constraints{Field: "type", Label: "Task type", Required: true})
		if err != nil {
			return err
		}
		typ, err := model.ParseTaskType(raw)
		if err != nil {
			return &validate.Error{Field: "type", Label: "Task type", Message: err.Error()}
		}
		t.Type = typ
	}
	if u.Priority != nil {
		p, err := model.ParsePriority(*u.Priority)
		if err != nil {
			return &validate.Error{Field: "priority", Label: "Priority", Message: err.Error()}
		}
		t.Priority = p
	}
	if u.EstimatedHours != nil {
		hours, err := validate.Number(*u.EstimatedHours, taskRule("estimatedHours", "", false))
		if err != nil {
			return err
		}
		t.EstimatedHours = hours
	}
	if u.TestStatus != nil {
		raw, err := validate.Text(*u.TestStatus, validate.Constraints{Field: "testStatus", Label: "Test status", Required: true})
		if err != nil {
			return err
		}
		ts, err := model.ParseTestStatus(raw)
		if err != nil {
			return &validate.Error{Field: "testStatus", Label: "Test status", Message: err.Error()}
		}
		t.TestStatus = ts
	}
	if u.AssignedTo != nil {
		who, err := validate.Text(*u.AssignedTo, taskRule("assignedTo", "", false))
		if err != nil {
			return err
		}
		t.AssignedTo = who
	}
	if u.DueDate != nil {
		due, err := validate.Date(*u.DueDate, taskRule("dueDate", "", false))
		if err != nil {
			return err
		}
		if due.IsZero() {
			t.DueDate = nil
		} else {
			s := due.Format(validate.DateLayout)
			t.DueDate = &s
		}
	}
	if u.Labels != nil {
		t.Labels = model.SplitList(*u.Labels, ",")
	}
	if u.Dependencies != nil {
		t.Dependencies = model.SplitList(*u.Dependencies, ",")
	}
	if u.Commits != nil {
		raw := strings.ReplaceAll(*u.Commits, ",", "\n")
		commits, err := validate.List(model.SplitLines(raw), taskRule("commits", "", false))
		if err != nil {
			return err
		}
		t.Commits = commits
	}
	return nil
}

// taskRule returns the TaskSchema constraints for field with the field name
// filled in. An empty label keeps the schema's label.
func taskRule(field, label string, required bool) validate.Constraints {
	c := validate.TaskSchema[field].Constraints
	c.Field = field
	if label != "" {
		c.Label = label
	}
	if required {
		c.Required = true
	}
	return c
}

// DeleteTask removes a task. It reports false without side effects when the
// task does not exist.
func (b *Board) DeleteTask(id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.taskIndex(id)
	if i < 0 {
		return false, nil
	}
	task := b.tasks[i]
	b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)

	if err := b.persist(); err != nil {
		return true, err
	}
	b.notifier.Notify(fmt.Sprintf("Task %q deleted", task.Text), notify.Success, 0)
	return true, nil
}

// UpdateTaskStatus moves a task to another column. A missing task or a move
// to the column the task is already in changes nothing and reports false.
func (b *Board) UpdateTaskStatus(id string, status model.Status) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !status.Valid() {
		return false, b.fail(&validate.Error{Field: "status", Label: "Status", Message: fmt.Sprintf("unknown status %q", status)})
	}
	i := b.taskIndex(id)
	if i < 0 || b.tasks[i].Status == status {
		return false, nil
	}
	b.tasks[i].Status = status

	if err := b.persist(); err != nil {
		return true, err
	}
	b.notifier.Notify(fmt.Sprintf("Task %q moved to %s", preview(b.tasks[i].Text, 20), status.Label()), notify.Success, 0)
	return true, nil
}

// SearchTasks returns the tasks whose text, description or labels contain
// term, ignoring case.
func (b *Board) SearchTasks(term string) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []model.Task{}
	for _, t := range b.tasks {
		if t.Matches(term) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Projects returns a copy of every project in creation order.
func (b *Board) Projects() []model.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneProjects(b.projects)
}

// SortedProjects returns every project ordered by name.
func (b *Board) SortedProjects() []model.Project {
	out := b.Projects()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Tasks returns a copy of every task in creation order.
func (b *Board) Tasks() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneTasks(b.tasks)
}

// Project returns the project with the given id.
func (b *Board) Project(id string) (model.Project, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.projectIndex(id)
	if i < 0 {
		return model.Project{}, false
	}
	return b.projects[i].Clone(), true
}

// Task returns the task with the given id.
func (b *Board) Task(id string) (model.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		return model.Task{}, false
	}
	return b.tasks[i].Clone(), true
}

// ProjectTasks returns the tasks that belong to a project.
func (b *Board) ProjectTasks(projectID string) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Task{}
	for _, t := range b.tasks {
		if t.ProjectID == projectID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ColumnCount is the number of tasks in one status column.
type ColumnCount struct {
	Status  model.Status
	Count   int
	Percent int // share of all tasks, rounded
}

// ColumnCounts returns a count for each status column, left to right.
func (b *Board) ColumnCounts() []ColumnCount {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := len(b.tasks)
	counts := make([]ColumnCount, len(model.Statuses))
	for i, st := range model.Statuses {
		counts[i].Status = st
	}
	for _, t := range b.tasks {
		if i := t.Status.Index(); i >= 0 {
			counts[i].Count++
		}
	}
	for i := range counts {
		counts[i].Percent = percent(counts[i].Count, total)
	}
	return counts
}

// ProjectStats summarizes a project's progress.
type ProjectStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Progress  int `json:"progress"` // percent done, rounded
}

// ProjectStats returns task totals for a project.
func (b *Board) ProjectStats(projectID string) ProjectStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	var s ProjectStats
	for _, t := range b.tasks {
		if t.ProjectID != projectID {
			continue
		}
		s.Total++
		if t.Status == model.StatusDone {
			s.Completed++
		}
	}
	s.Progress = percent(s.Completed, s.Total)
	return s
}

// ResolveTaskID finds the single task whose id equals or starts with prefix.
func (b *Board) ResolveTaskID(prefix string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, len(b.tasks))
	for i, t := range b.tasks {
		ids[i] = t.ID
	}
	return resolvePrefix("task", prefix, ids)
}

// ResolveProjectID finds a project by exact id, by exact name ignoring case,
// or by unique id prefix, in that order.
func (b *Board) ResolveProjectID(ref string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if b.projectIndex(ref) >= 0 {
		return ref, nil
	}
	var byName []string
	for _, p := range b.projects {
		if strings.EqualFold(p.Name, ref) {
			byName = append(byName, p.ID)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
	default:
		return "", &AmbiguousError{Kind: "project", Prefix: ref, Matches: byName}
	}
	ids := make([]string, len(b.projects))
	for i, p := range b.projects {
		ids[i] = p.ID
	}
	return resolvePrefix("project", ref, ids)
}

func resolvePrefix(kind, prefix string, ids []string) (string, error) {
	if prefix == "" {
		return "", &NotFoundError{Kind: kind}
	}
	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: kind, ID: prefix}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Kind: kind, Prefix: prefix, Matches: matches}
	}
}

func (b *Board) requireProject(id string) (model.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Project{}, &validate.Error{Field: "projectId", Label: "Project", Message: "Please select a project"}
	}
	i := b.projectIndex(id)
	if i < 0 {
		return model.Project{}, &NotFoundError{Kind: "project", ID: id}
	}
	return b.projects[i], nil
}

func parseTypeAndPriority(typ, priority string) (model.TaskType, model.Priority, error) {
	if strings.TrimSpace(typ) == "" {
		return "", "", &validate.Error{Field: "type", Label: "Task type", Message: "Task type is required"}
	}
	taskType, err := model.ParseTaskType(typ)
	if err != nil {
		return "", "", &validate.Error{Field: "type", Label: "Task type", Message: err.Error()}
	}
	prio, err := model.ParsePriority(priority)
	if err != nil {
		return "", "", &validate.Error{Field: "priority", Label: "Priority", Message: err.Error()}
	}
	return taskType, prio, nil
}

func (b *Board) persist() error {
	if b.saver == nil {
		return nil
	}
	if !b.saver.Save(b.projects, b.tasks) {
		return ErrNotSaved
	}
	return nil
}

func (b *Board) fail(err error) error {
	b.notifier.Notify(err.Error(), notify.Error, 0)
	return err
}

func (b *Board) uniqueID(title string, index func(string) int) string {
	for {
		id := b.newID(title)
		if index(id) < 0 {
			return id
		}
	}
}

func (b *Board) projectIndex(id string) int {
	for i, p := range b.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) taskIndex(id string) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// preview returns the first n runes of s followed by "...", even when s is
// shorter than n.
func preview(s string, n int) string {
	r := []rune(s)
	return string(r[:min(n, len(r))]) + "..."
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func cloneProjects(in []model.Project) []model.Project {
	out := make([]model.Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
