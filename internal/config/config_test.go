package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvStore, EnvDatabase, EnvNamespace, EnvBackupDir, EnvBackupTTL, EnvAutosave, EnvLogLevel, EnvProject} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.Store)
	assert.Equal(t, DefaultBackupTTL, cfg.BackupTTL.Duration)
	assert.Equal(t, DefaultAutosave, cfg.Autosave.Duration)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
store = "/var/lib/quadro"
backup_ttl = "2h"
autosave = "30s"
log_level = "debug"
project = "backend"
namespace = "team"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "/var/lib/quadro", cfg.Store)
	assert.Equal(t, 2*time.Hour, cfg.BackupTTL.Duration)
	assert.Equal(t, 30*time.Second, cfg.Autosave.Duration)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "backend", cfg.Project)
	assert.Equal(t, "team", cfg.Namespace)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `store = "/from/file"`)
	t.Setenv(EnvStore, "/from/env")
	t.Setenv(EnvDatabase, "postgres://localhost/quadro")
	t.Setenv(EnvBackupTTL, "15m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Store)
	assert.Equal(t, "postgres://localhost/quadro", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.BackupTTL.Duration)

	cfg.Override("/from/flag", "", "warn")
	assert.Equal(t, "/from/flag", cfg.Store)
	assert.Equal(t, "postgres://localhost/quadro", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load("")
	require.NoError(t, err, "implicit config path may be absent")
	assert.Empty(t, cfg.Path)

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err, "explicit config path must exist")
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, `store = [`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `colour = "blue"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys colour")

	_, err = Load(writeConfig(t, `autosave = "soon"`))
	assert.Error(t, err)

	t.Setenv(EnvAutosave, "often")
	_, err = Load(writeConfig(t, ``))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAutosave)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), expandHome("~/data"))
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "rel/~", expandHome("rel/~"))
}

func TestBackupPath(t *testing.T) {
	base := Config{BackupDir: "/tmp/quadro-backup"}

	work, personal := base, base
	work.Store = "/home/ana/work"
	personal.Store = "/home/ana/personal"
	assert.NotEqual(t, work.BackupPath(), personal.BackupPath())
	assert.Equal(t, "/tmp/quadro-backup", filepath.Dir(work.BackupPath()))

	same := base
	same.Store = "/home/ana/work/"
	assert.Equal(t, work.BackupPath(), same.BackupPath())

	dbA, dbB := base, base
	dbA.DatabaseURL = "postgres://localhost/quadro"
	dbB.DatabaseURL = "postgres://localhost/quadro"
	dbB.Namespace = "team"
	assert.NotEqual(t, dbA.BackupPath(), dbB.BackupPath())

	// The store directory is ignored once a database is the primary.
	dbC := dbA
	dbC.Store = "/elsewhere"
	assert.Equal(t, dbA.BackupPath(), dbC.BackupPath())
	assert.NotEqual(t, dbA.BackupPath(), work.BackupPath())
}
