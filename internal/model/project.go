package model

import (
	"encoding/json"
	"time"
)

// InitialVersion is the version tag given to new projects.
const InitialVersion = "0.1.0"

// Project groups tasks under a tracked unit of work.
type Project struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Repository  string            `json:"repository"`
	TechStack   []string          `json:"techStack"`
	CreatedAt   time.Time         `json:"createdAt"`
	Version     string            `json:"version"`
	Sprints     []json.RawMessage `json:"sprints"`
}

// NewProject returns a project with every list populated and the initial version set.
func NewProject(id, name string, createdAt time.Time) Project {
	p := Project{ID: id, Name: name, CreatedAt: createdAt}
	p.applyDefaults()
	return p
}

// UnmarshalJSON decodes a project and fills in defaults for missing fields.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Project(v)
	p.applyDefaults()
	return nil
}

// Clone returns a copy of p that shares no slices with it.
func (p Project) Clone() Project {
	c := p
	c.TechStack = append([]string{}, p.TechStack...)
	c.Sprints = make([]json.RawMessage, len(p.Sprints))
	for i, s := range p.Sprints {
		c.Sprints[i] = append(json.RawMessage{}, s...)
	}
	return c
}

func (p *Project) applyDefaults() {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Sprints == nil {
		p.Sprints = []json.RawMessage{}
	}
	if p.Version == "" {
		p.Version = InitialVersion
	}
}
