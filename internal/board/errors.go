package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotSaved is returned when an operation changed the board but the
// change could not be persisted. The in-memory state keeps the change.
var ErrNotSaved = errors.New("change applied but not saved")

// NotFoundError reports a stale or unknown id.
type NotFoundError struct {
	Kind string // "project" or "task"
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", capitalize(e.Kind))
	}
	return fmt.Sprintf("%s not found: %s", capitalize(e.Kind), e.ID)
}

// AmbiguousError reports an id prefix that matches more than one entity.
type AmbiguousError struct {
	Kind    string
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous %s prefix %q matches %s", e.Kind, e.Prefix, strings.Join(e.Matches, ", "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
