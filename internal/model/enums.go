// Package model defines the project and task entities tracked by the board.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// TaskType classifies the kind of work a task represents.
type TaskType string

const (
	TypeFeature  TaskType = "feature"
	TypeBug      TaskType = "bug"
	TypeRefactor TaskType = "refactor"
	TypeTest     TaskType = "test"
	TypeDocs     TaskType = "docs"
	TypeSetup    TaskType = "setup"
)

// TaskTypes lists every task type in display order.
var TaskTypes = []TaskType{TypeFeature, TypeBug, TypeRefactor, TypeTest, TypeDocs, TypeSetup}

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TypeFeature, TypeBug, TypeRefactor, TypeTest, TypeDocs, TypeSetup:
		return true
	}
	return false
}

// Label returns the human-readable name of the task type.
func (t TaskType) Label() string {
	switch t {
	case TypeFeature:
		return "Feature"
	case TypeBug:
		return "Bug Fix"
	case TypeRefactor:
		return "Refactoring"
	case TypeTest:
		return "Testing"
	case TypeDocs:
		return "Documentation"
	case TypeSetup:
		return "Setup/DevOps"
	default:
		return string(t)
	}
}

// ParseTaskType converts s into a TaskType.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown task type %q (want one of %s)", s, joinValues(TaskTypes))
	}
	return t, nil
}

// Priority orders tasks within a column.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts s into a Priority. An empty string means low.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityLow, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (want one of %s)", s, joinValues(Priorities))
	}
	return p, nil
}

// Status is the board column a task sits in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses lists the board columns from left to right.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Valid reports whether s is one of the four columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Label renders the status for messages, e.g. "in progress".
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "-", " ")
}

// Index returns the column position of s, or -1 for an unknown status.
func (s Status) Index() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStatus converts s into a Status. Spaces and underscores are accepted
// in place of the dash ("in progress", "in_progress").
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	st := Status(norm)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q (want one of %s)", s, joinValues(Statuses))
	}
	return st, nil
}

// TestStatus tracks the outcome of a task's tests.
type TestStatus string

const (
	TestPending TestStatus = "pending"
	TestPassed  TestStatus = "passed"
	TestFailed  TestStatus = "failed"
)

// TestStatuses lists every test status.
var TestStatuses = []TestStatus{TestPending, TestPassed, TestFailed}

// Valid reports whether ts is a known test status.
func (ts TestStatus) Valid() bool {
	switch ts {
	case TestPending, TestPassed, TestFailed:
		return true
	}
	return false
}

// ParseTestStatus converts s into a TestStatus.
func ParseTestStatus(s string) (TestStatus, error) {
	ts := TestStatus(strings.ToLower(strings.TrimSpace(s)))
	if !ts.Valid() {
		return "", fmt.Errorf("unknown test status %q (want one of %s)", s, joinValues(TestStatuses))
	}
	return ts, nil
}

// KnownLabels are the suggested task labels, keyed by value.
var KnownLabels = map[string]string{
	"frontend": "Frontend",
	"backend":  "Backend",
	"database": "Database",
	"api":      "API",
	"ui":       "UI/UX",
	"security": "Security",
}

// LabelName returns the display name of a known label, or the label itself.
func LabelName(label string) string {
	if name, ok := KnownLabels[label]; ok {
		return name
	}
	return label
}

// SuggestedLabels returns the known label values in sorted order.
func SuggestedLabels() []string {
	labels := make([]string, 0, len(KnownLabels))
	for l := range KnownLabels {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
