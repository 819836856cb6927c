// Package persist saves the board to its storage tiers and recovers it at startup.
//
// Save writes the plain collections to the primary tier, mirrors them to the
// backup tier and stores a compressed encoding next to the primary keys.
// Recover walks primary → compressed → backup and always returns usable
// collections.
package persist

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/otavio/quadro/internal/kv"
	"github.com/otavio/quadro/internal/model"
	"github.com/otavio/quadro/internal/notify"
)

// Storage keys.
const (
	KeyProjects       = "projects"
	KeyTasks          = "tasks"
	KeyProjectsBackup = "projects_backup"
	KeyTasksBackup    = "tasks_backup"
	KeyCompressed     = "compressed_data"
)

// Tier names the storage slot a recovery was served from.
type Tier string

const (
	TierPrimary    Tier = "primary"
	TierCompressed Tier = "compressed"
	TierBackup     Tier = "backup"
	TierNone       Tier = "none"
)

const (
	msgSaveFailed    = "Failed to save changes"
	msgStartingFresh = "Error loading saved data. Starting fresh."
)

// Persister moves board collections to and from storage.
type Persister struct {
	primary  kv.Store
	backup   kv.Store
	notifier notify.Notifier
	logger   *log.Logger

	lastErr  error
	lastTier Tier
}

// New returns a Persister. backup may be nil to disable the backup tier;
// notifier and logger may be nil.
func New(primary, backup kv.Store, notifier notify.Notifier, logger *log.Logger) *Persister {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Persister{primary: primary, backup: backup, notifier: notifier, logger: logger}
}

// Save stores value copies of projects and tasks in every tier. On failure
// it notifies the user and returns false; earlier writes are not undone.
func (p *Persister) Save(projects []model.Project, tasks []model.Task) bool {
	if err := p.save(projects, tasks); err != nil {
		p.lastErr = err
		p.logger.Error("saving data", "err", err)
		p.notifier.Notify(msgSaveFailed, notify.Error, notify.DefaultDuration)
		return false
	}
	p.lastErr = nil
	return true
}

// LastError returns the error from the most recent failed Save, or nil.
func (p *Persister) LastError() error {
	return p.lastErr
}

func (p *Persister) save(projects []model.Project, tasks []model.Task) error {
	projectCopies := make([]model.Project, len(projects))
	for i, pr := range projects {
		projectCopies[i] = pr.Clone()
	}
	taskCopies := make([]model.Task, len(tasks))
	for i, t := range tasks {
		taskCopies[i] = t.Clone()
	}

	projectsJSON, err := json.Marshal(projectCopies)
	if err != nil {
		return &StorageError{Op: "marshal", Key: KeyProjects, Err: err}
	}
	tasksJSON, err := json.Marshal(taskCopies)
	if err != nil {
		return &StorageError{Op: "marshal", Key: KeyTasks, Err: err}
	}

	writes := []struct {
		store kv.Store
		key   string
		value string
	}{
		{p.primary, KeyProjects, string(projectsJSON)},
		{p.primary, KeyTasks, string(tasksJSON)},
		{p.backup, KeyProjectsBackup, string(projectsJSON)},
		{p.backup, KeyTasksBackup, string(tasksJSON)},
	}
	for _, w := range writes {
		if w.store == nil {
			continue
		}
		if err := w.store.Set(w.key, w.value); err != nil {
			return &StorageError{Op: "set", Key: w.key, Err: err}
		}
	}

	compressed, err := Compress(projectCopies, taskCopies)
	if err != nil {
		return &StorageError{Op: "compress", Key: KeyCompressed, Err: err}
	}
	if err := p.primary.Set(KeyCompressed, compressed); err != nil {
		return &StorageError{Op: "set", Key: KeyCompressed, Err: err}
	}
	return nil
}

// Recover loads the collections, falling back from the primary keys to the
// compressed encoding and then to the backup tier. Any failure resets both
// collections to empty and warns the user; Recover never fails.
func (p *Persister) Recover() ([]model.Project, []model.Task) {
	projects, tasks, tier, err := p.recover()
	if err != nil {
		p.lastTier = TierNone
		p.logger.Error("recovering data", "err", err)
		p.notifier.Notify(msgStartingFresh, notify.Warning, notify.DefaultDuration)
		return []model.Project{}, []model.Task{}
	}
	p.lastTier = tier
	p.logger.Debug("recovered data", "tier", tier, "projects", len(projects), "tasks", len(tasks))
	return projects, tasks
}

// RecoveredFrom returns the tier the last Recover call was served from.
func (p *Persister) RecoveredFrom() Tier {
	return p.lastTier
}

func (p *Persister) recover() ([]model.Project, []model.Task, Tier, error) {
	tier := TierPrimary
	projectsData, err := get(p.primary, KeyProjects)
	if err != nil {
		return nil, nil, tier, err
	}
	tasksData, err := get(p.primary, KeyTasks)
	if err != nil {
		return nil, nil, tier, err
	}

	if projectsData == "" || tasksData == "" {
		compressed, err := get(p.primary, KeyCompressed)
		if err != nil {
			return nil, nil, tier, err
		}
		if compressed != "" {
			tier = TierCompressed
			projectsData, tasksData, err = Decompress(compressed)
			if err != nil {
				return nil, nil, tier, &StorageError{Op: "decode", Key: KeyCompressed, Err: err}
			}
		}
	}

	if projectsData == "" || tasksData == "" {
		tier = TierBackup
		if projectsData, err = get(p.backup, KeyProjectsBackup); err != nil {
			return nil, nil, tier, err
		}
		if tasksData, err = get(p.backup, KeyTasksBackup); err != nil {
			return nil, nil, tier, err
		}
		if projectsData == "" && tasksData == "" {
			tier = TierNone
		}
	}

	projects, err := decodeProjects(projectsData)
	if err != nil {
		return nil, nil, tier, &StorageError{Op: "decode", Key: KeyProjects, Err: err}
	}
	tasks, err := decodeTasks(tasksData)
	if err != nil {
		return nil, nil, tier, &StorageError{Op: "decode", Key: KeyTasks, Err: err}
	}
	return projects, tasks, tier, nil
}

func get(store kv.Store, key string) (string, error) {
	if store == nil {
		return "", nil
	}
	v, ok, err := store.Get(key)
	if err != nil {
		return "", &StorageError{Op: "get", Key: key, Err: err}
	}
	if !ok {
		return "", nil
	}
	return v, nil
}
