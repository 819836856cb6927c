package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderReplacesSameSeverity(t *testing.T) {
	r := NewRecorder()
	r.Notify("first", Success, 0)
	r.Notify("oops", Error, 0)
	r.Notify("second", Success, 0)

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "oops", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, DefaultDuration, entries[1].Duration)
}

func TestRecorderKeepsAtMostThree(t *testing.T) {
	r := NewRecorder()
	r.Notify("a", Success, 0)
	r.Notify("b", Error, 0)
	r.Notify("c", Warning, 0)
	r.Notify("d", Info, 0)

	entries := r.Entries()
	require.Len(t, entries, MaxVisible)
	assert.Equal(t, "b", entries[0].Message)

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "d", last.Message)
}

func TestRecorderVisible(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &Recorder{now: func() time.Time { return base }}
	r.Notify("short", Info, time.Second)
	r.Notify("long", Warning, time.Minute)

	visible := r.Visible(base.Add(2 * time.Second))
	require.Len(t, visible, 1)
	assert.Equal(t, "long", visible[0].Message)
}

func TestRecorderReset(t *testing.T) {
	r := NewRecorder()
	r.Notify("x", Info, 0)
	r.Reset()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Last()
	assert.False(t, ok)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(&buf, log.InfoLevel)

	n.Notify("Project created", Success, 0)
	n.Notify("Failed to save changes", Error, 0)

	out := buf.String()
	assert.Contains(t, out, "Project created")
	assert.Contains(t, out, "Failed to save changes")
	assert.Contains(t, out, "quadro")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
}

func TestSeverityIcon(t *testing.T) {
	assert.Equal(t, "✓", Success.Icon())
	assert.Equal(t, "✕", Error.Icon())
	assert.Equal(t, "•", Severity("other").Icon())
}
