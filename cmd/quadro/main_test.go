package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/otavio/quadro/internal/notify"
)

// resetFlags restores every flag to its default so runs don't leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate points the CLI at a fresh store with no config, database or default project.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("QUADRO_CONFIG", filepath.Join(dir, "absent.toml"))
	t.Setenv("QUADRO_STORE", filepath.Join(dir, "store"))
	t.Setenv("QUADRO_BACKUP_DIR", filepath.Join(dir, "backup"))
	t.Setenv("QUADRO_PROJECT", "")
	t.Setenv("QUADRO_LOG_LEVEL", "error")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("QUADRO_NAMESPACE", "")
	return dir
}

// runCLI executes the root command with args and returns what it printed to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	return <-done, runErr
}

func TestRootCommandHelp(t *testing.T) {
	if _, err := runCLI(t, "--help"); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}
}

func TestPersistentFlags(t *testing.T) {
	f := rootCmd.PersistentFlags()

	for _, name := range []string{"store", "db", "config", "log-level"} {
		if f.Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"project", "add <title>", "add-many", "edit <id>", "move <id> <status>", "rm <id>",
		"search <term>", "status", "show <id>", "board", "export", "migrate"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Use] = true
	}
	for _, use := range want {
		if !have[use] {
			t.Errorf("expected %q command to be registered", use)
		}
	}

	sub := map[string]bool{}
	for _, c := range projectCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, name := range []string{"add", "list", "show", "edit", "rm"} {
		if !sub[name] {
			t.Errorf("expected 'project %s' command to be registered", name)
		}
	}
}

func TestConnectDB_NoURL(t *testing.T) {
	isolate(t)
	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if err := connectDB(); err == nil {
		t.Fatal("connectDB() should fail when no DATABASE_URL is set")
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("QUADRO_STORE", "/env/store")
	storeDir = "/flag/store"
	defer func() { storeDir = "" }()

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Store != "/flag/store" {
		t.Errorf("cfg.Store = %q, want %q", cfg.Store, "/flag/store")
	}
}

func TestProjectRef(t *testing.T) {
	isolate(t)
	t.Setenv("QUADRO_PROJECT", "backend")
	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if got := projectRef(""); got != "backend" {
		t.Errorf("projectRef(\"\") = %q, want %q", got, "backend")
	}
	if got := projectRef("web"); got != "web" {
		t.Errorf("projectRef(\"web\") = %q, want %q", got, "web")
	}
}

func TestCLINotifierSkipsErrors(t *testing.T) {
	var buf bytes.Buffer
	n := cliNotifier{log: notify.NewLogNotifier(&buf, notify.ParseLevel("info"))}

	n.Notify("Task updated successfully", notify.Success, 0)
	n.Notify("Task title is required", notify.Error, 0)

	out := buf.String()
	if !strings.Contains(out, "Task updated successfully") {
		t.Errorf("expected success to be logged, got %q", out)
	}
	if strings.Contains(out, "Task title is required") {
		t.Errorf("expected error to be skipped, got %q", out)
	}
}

func TestBoardRequiresTTY(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "board"); err == nil {
		t.Error("expected board to fail without a terminal")
	}
}
