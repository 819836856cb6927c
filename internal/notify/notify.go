// Package notify reports operation outcomes to the user.
package notify

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Severity classifies a notification.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// DefaultDuration is how long a notification stays visible when not specified.
const DefaultDuration = 3 * time.Second

// MaxVisible is the number of notifications a Recorder keeps.
const MaxVisible = 3

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Notify(message string, severity Severity, duration time.Duration)
}

// Icon returns the glyph shown next to a notification.
func (s Severity) Icon() string {
	switch s {
	case Success:
		return "✓"
	case Error:
		return "✕"
	case Warning:
		return "⚠"
	case Info:
		return "ℹ"
	default:
		return "•"
	}
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(string, Severity, time.Duration) {}

// LogNotifier writes notifications through a charmbracelet logger.
type LogNotifier struct {
	Logger *log.Logger
}

// NewLogNotifier returns a LogNotifier that writes to w with the quadro prefix.
func NewLogNotifier(w io.Writer, level log.Level) *LogNotifier {
	return &LogNotifier{Logger: log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "quadro",
	})}
}

// Notify logs message at the level matching severity.
func (n *LogNotifier) Notify(message string, severity Severity, _ time.Duration) {
	switch severity {
	case Error:
		n.Logger.Error(message)
	case Warning:
		n.Logger.Warn(message)
	case Success:
		n.Logger.Info(message, "status", "ok")
	default:
		n.Logger.Info(message)
	}
}

// Entry is a recorded notification.
type Entry struct {
	Message  string
	Severity Severity
	At       time.Time
	Duration time.Duration
}

// Expired reports whether the entry is no longer visible at now.
func (e Entry) Expired(now time.Time) bool {
	return e.Duration > 0 && now.Sub(e.At) >= e.Duration
}

// Recorder keeps the most recent notifications. A new notification replaces
// any visible one of the same severity, and at most MaxVisible are kept.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Notify records the notification.
func (r *Recorder) Notify(message string, severity Severity, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if duration == 0 {
		duration = DefaultDuration
	}
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Severity != severity {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	for len(r.entries) >= MaxVisible {
		r.entries = r.entries[1:]
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	r.entries = append(r.entries, Entry{Message: message, Severity: severity, At: now(), Duration: duration})
}

// Entries returns a copy of the recorded notifications, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Visible returns the entries that have not expired at now.
func (r *Recorder) Visible(now time.Time) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if !e.Expired(now) {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Len returns the number of recorded notifications.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset clears every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// ParseLevel converts a level name into a charmbracelet log level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
