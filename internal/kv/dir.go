package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Dir stores each key as a file in a directory. With a positive TTL, values
// older than the TTL read as missing, which makes a Dir under the temp
// directory behave like a session-scoped backup tier.
type Dir struct {
	Root string
	TTL  time.Duration

	now func() time.Time
}

// NewDir returns a Dir rooted at root, creating the directory if needed.
func NewDir(root string, ttl time.Duration) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("store directory is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &Dir{Root: root, TTL: ttl, now: time.Now}, nil
}

// Get returns the value stored under key.
func (d *Dir) Get(key string) (string, bool, error) {
	path, err := d.path(key)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", key, err)
	}
	if d.expired(info.ModTime()) {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value under key via a temp file and rename.
func (d *Dir) Set(key, value string) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.Root, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (d *Dir) Remove(key string) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (d *Dir) expired(mod time.Time) bool {
	if d.TTL <= 0 {
		return false
	}
	now := time.Now
	if d.now != nil {
		now = d.now
	}
	return now().Sub(mod) > d.TTL
}

func (d *Dir) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(d.Root, key+".json"), nil
}
