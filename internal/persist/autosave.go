package persist

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultAutosaveInterval is how often the board is flushed in the background.
const DefaultAutosaveInterval = 60 * time.Second

// AutoSaver runs a flush function on a fixed interval.
type AutoSaver struct {
	cron *cron.Cron
	id   cron.EntryID
}

// NewAutoSaver schedules flush every interval. Runs never overlap; a tick that
// fires while the previous flush is still running is skipped.
func NewAutoSaver(interval time.Duration, flush func()) (*AutoSaver, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("autosave interval %s is below 1s", interval)
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	id, err := c.AddFunc(fmt.Sprintf("@every %s", interval), flush)
	if err != nil {
		return nil, fmt.Errorf("scheduling autosave: %w", err)
	}
	return &AutoSaver{cron: c, id: id}, nil
}

// Start begins the schedule in the background.
func (a *AutoSaver) Start() {
	a.cron.Start()
}

// Stop halts the schedule and waits for a running flush to finish.
func (a *AutoSaver) Stop() {
	<-a.cron.Stop().Done()
}

// Next returns the time of the next scheduled flush, or zero before Start.
func (a *AutoSaver) Next() time.Time {
	return a.cron.Entry(a.id).Next
}
