package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/otavio/quadro/internal/model"
)

// compressKeys maps long field names to their one-letter codes.
var compressKeys = map[string]string{
	"id":          "i",
	"text":        "t",
	"status":      "s",
	"createdAt":   "c",
	"description": "d",
	"projectId":   "p",
}

var expandKeys = invert(compressKeys)

// escapePrefix marks a key stored verbatim: one that already equals a code,
// or that itself starts with the prefix. It keeps nested objects holding
// both "id" and "i" from collapsing into one key.
const escapePrefix = "~"

// Compress encodes both collections as one JSON object with long field names
// replaced by their one-letter codes at every nesting level.
func Compress(projects []model.Project, tasks []model.Task) (string, error) {
	data, err := json.Marshal(struct {
		Projects []model.Project `json:"projects"`
		Tasks    []model.Task    `json:"tasks"`
	}{nonNil(projects), nonNil(tasks)})
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}
	v, err := decodeGeneric(data)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(renameKeys(v, compressKey))
	if err != nil {
		return "", fmt.Errorf("marshaling compressed payload: %w", err)
	}
	return string(out), nil
}

// Decompress reverses Compress and returns the raw JSON of each collection.
// A collection missing from the payload is returned as an empty string.
func Decompress(compressed string) (projects, tasks string, err error) {
	v, err := decodeGeneric([]byte(compressed))
	if err != nil {
		return "", "", err
	}
	obj, ok := renameKeys(v, expandKey).(map[string]any)
	if !ok {
		return "", "", fmt.Errorf("compressed payload is not an object")
	}
	if projects, err = encodeField(obj, "projects"); err != nil {
		return "", "", err
	}
	if tasks, err = encodeField(obj, "tasks"); err != nil {
		return "", "", err
	}
	return projects, tasks, nil
}

func encodeField(obj map[string]any, name string) (string, error) {
	v, ok := obj[name]
	if !ok || v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", name, err)
	}
	return string(data), nil
}

func compressKey(k string) string {
	if short, ok := compressKeys[k]; ok {
		return short
	}
	if _, ok := expandKeys[k]; ok || strings.HasPrefix(k, escapePrefix) {
		return escapePrefix + k
	}
	return k
}

func expandKey(k string) string {
	if strings.HasPrefix(k, escapePrefix) {
		return k[len(escapePrefix):]
	}
	if long, ok := expandKeys[k]; ok {
		return long
	}
	return k
}

func renameKeys(v any, rename func(string) string) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[rename(k)] = renameKeys(val, rename)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = renameKeys(val, rename)
		}
		return out
	default:
		return v
	}
}

// decodeGeneric parses data keeping numbers as json.Number so re-encoding
// does not change them.
func decodeGeneric(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return v, nil
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
