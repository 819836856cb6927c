package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Task is a unit of work belonging to one project.
type Task struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	ProjectID      string     `json:"projectId"`
	Type           TaskType   `json:"type"`
	Priority       Priority   `json:"priority"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	DueDate        *string    `json:"dueDate"`
	Description    string     `json:"description"`
	Labels         []string   `json:"labels"`
	AssignedTo     string     `json:"assignedTo"`
	EstimatedHours float64    `json:"estimatedHours"`
	Dependencies   []string   `json:"dependencies"`
	Commits        Commits    `json:"commits"`
	TestStatus     TestStatus `json:"testStatus"`
}

// NewTask returns a todo task with pending tests and empty lists.
func NewTask(id, text, projectID string, typ TaskType, priority Priority, createdAt time.Time) Task {
	t := Task{
		ID:         id,
		Text:       text,
		ProjectID:  projectID,
		Type:       typ,
		Priority:   priority,
		Status:     StatusTodo,
		CreatedAt:  createdAt,
		TestStatus: TestPending,
	}
	t.applyDefaults()
	return t
}

// UnmarshalJSON decodes a task and fills in defaults for missing fields.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Task(v)
	t.applyDefaults()
	return nil
}

// Clone returns a copy of t that shares no slices or pointers with it.
func (t Task) Clone() Task {
	c := t
	c.Labels = append([]string{}, t.Labels...)
	c.Dependencies = append([]string{}, t.Dependencies...)
	c.Commits = append(Commits{}, t.Commits...)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return c
}

// Matches reports whether term occurs case-insensitively in the task's text,
// description, or any label. An empty term matches every task.
func (t Task) Matches(term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(t.Text), term) ||
		strings.Contains(strings.ToLower(t.Description), term) {
		return true
	}
	for _, l := range t.Labels {
		if strings.Contains(strings.ToLower(l), term) {
			return true
		}
	}
	return false
}

func (t *Task) applyDefaults() {
	if t.Labels == nil {
		t.Labels = []string{}
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if t.Commits == nil {
		t.Commits = Commits{}
	}
	if !t.Priority.Valid() {
		t.Priority = PriorityLow
	}
	if !t.TestStatus.Valid() {
		t.TestStatus = TestPending
	}
}

// Commits lists commit hashes attached to a task. It always encodes as a JSON
// array; a newline-joined string is accepted on decode.
type Commits []string

// MarshalJSON encodes nil as an empty array.
func (c Commits) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(c))
}

// UnmarshalJSON accepts an array of strings, a newline-joined string, or null.
func (c *Commits) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("commits must be a list or string: %w", err)
	}
	*c = SplitLines(s)
	return nil
}

// SplitLines splits s on newlines, trims each line and drops blank ones.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SplitList splits s on sep, trims each item and drops blank ones.
func SplitList(s, sep string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
