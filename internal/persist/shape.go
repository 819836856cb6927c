package persist

import (
	_ "embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/otavio/quadro/internal/model"
)

var (
	//go:embed schema/task.json
	taskSchemaJSON string
	//go:embed schema/project.json
	projectSchemaJSON string

	taskSchema    = jsonschema.MustCompileString("task.json", taskSchemaJSON)
	projectSchema = jsonschema.MustCompileString("project.json", projectSchemaJSON)
)

// decodeProjects parses a stored project collection. Anything other than a
// JSON array yields an empty collection; elements without an id or with
// mistyped fields are dropped.
func decodeProjects(data string) ([]model.Project, error) {
	items, raw, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	out := make([]model.Project, 0, len(items))
	for i, item := range items {
		if projectSchema.Validate(item) != nil {
			continue
		}
		var p model.Project
		if json.Unmarshal(raw[i], &p) != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// decodeTasks parses a stored task collection, keeping only tasks with a
// non-empty id, text and status that decode cleanly.
func decodeTasks(data string) ([]model.Task, error) {
	items, raw, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}
	out := make([]model.Task, 0, len(items))
	for i, item := range items {
		if taskSchema.Validate(item) != nil {
			continue
		}
		var t model.Task
		if json.Unmarshal(raw[i], &t) != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// decodeList returns the generic and raw forms of each array element. A
// non-array value returns no elements and no error.
func decodeList(data string) ([]any, []json.RawMessage, error) {
	if data == "" {
		return nil, nil, nil
	}
	v, err := decodeGeneric([]byte(data))
	if err != nil {
		return nil, nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, nil, fmt.Errorf("splitting array: %w", err)
	}
	return items, raw, nil
}
