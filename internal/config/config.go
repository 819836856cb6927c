// Package config resolves quadro settings from defaults, a TOML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables read by Load.
const (
	EnvConfig    = "QUADRO_CONFIG"
	EnvStore     = "QUADRO_STORE"
	EnvDatabase  = "DATABASE_URL"
	EnvNamespace = "QUADRO_NAMESPACE"
	EnvBackupDir = "QUADRO_BACKUP_DIR"
	EnvBackupTTL = "QUADRO_BACKUP_TTL"
	EnvAutosave  = "QUADRO_AUTOSAVE"
	EnvLogLevel  = "QUADRO_LOG_LEVEL"
	EnvProject   = "QUADRO_PROJECT"
)

const (
	DefaultBackupTTL = 24 * time.Hour
	DefaultAutosave  = 60 * time.Second
	DefaultLogLevel  = "info"
)

// Duration is a time.Duration that decodes from strings like "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds the resolved settings.
type Config struct {
	Store       string   `toml:"store"`        // primary store directory
	DatabaseURL string   `toml:"database_url"` // when set, Postgres replaces the primary directory
	Namespace   string   `toml:"namespace"`    // board name inside the database store
	BackupDir   string   `toml:"backup_dir"`
	BackupTTL   Duration `toml:"backup_ttl"`
	Autosave    Duration `toml:"autosave"` // zero disables periodic saves
	LogLevel    string   `toml:"log_level"`
	Project     string   `toml:"project"` // default project for task commands

	// Path is the config file that was read, if any.
	Path string `toml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Store:     defaultStoreDir(),
		BackupDir: filepath.Join(os.TempDir(), "quadro-backup"),
		BackupTTL: Duration{DefaultBackupTTL},
		Autosave:  Duration{DefaultAutosave},
		LogLevel:  DefaultLogLevel,
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quadro", "config.toml")
}

// Load returns the defaults overlaid with the TOML file at path and then the
// environment. An empty path means DefaultPath; a missing file is not an error
// unless the path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return cfg, err
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("parsing config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	c.Path = path
	c.Store = expandHome(c.Store)
	c.BackupDir = expandHome(c.BackupDir)
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvStore); v != "" {
		c.Store = expandHome(v)
	}
	if v := getenv(EnvDatabase); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv(EnvNamespace); v != "" {
		c.Namespace = v
	}
	if v := getenv(EnvBackupDir); v != "" {
		c.BackupDir = expandHome(v)
	}
	if v := getenv(EnvBackupTTL); v != "" {
		if err := c.BackupTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvBackupTTL, err)
		}
	}
	if v := getenv(EnvAutosave); v != "" {
		if err := c.Autosave.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvAutosave, err)
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvProject); v != "" {
		c.Project = v
	}
	return nil
}

// Override applies non-empty flag values on top of c.
func (c *Config) Override(store, databaseURL, logLevel string) {
	if store != "" {
		c.Store = expandHome(store)
	}
	if databaseURL != "" {
		c.DatabaseURL = databaseURL
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// BackupPath returns the backup directory for the configured primary store.
// Each primary gets its own subdirectory of BackupDir, so boards kept in
// different directories or database namespaces never recover each other's
// backups.
func (c Config) BackupPath() string {
	var identity string
	if c.DatabaseURL != "" {
		identity = "db:" + c.DatabaseURL + "#" + c.Namespace
	} else {
		store := c.Store
		if abs, err := filepath.Abs(store); err == nil {
			store = abs
		}
		identity = "dir:" + filepath.Clean(store)
	}
	sum := sha256.Sum256([]byte(identity))
	return filepath.Join(c.BackupDir, hex.EncodeToString(sum[:6]))
}

func defaultStoreDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "quadro")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".quadro")
	}
	return filepath.Join(home, ".local", "share", "quadro")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
