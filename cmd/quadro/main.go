package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/board"
	"github.com/otavio/quadro/internal/config"
	"github.com/otavio/quadro/internal/db"
	"github.com/otavio/quadro/internal/kv"
	"github.com/otavio/quadro/internal/notify"
	"github.com/otavio/quadro/internal/persist"
)

var (
	storeDir   string
	dbURL      string
	configPath string
	logLevel   string

	cfg    = config.Default()
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "quadro"})
	pool   *pgxpool.Pool
)

var rootCmd = &cobra.Command{
	Use:   "quadro",
	Short: "Kanban board for projects and tasks",
	Long:  "Quadro tracks projects and their tasks across todo, in progress, review and done columns, in the terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", "", "data directory (overrides QUADRO_STORE)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "database URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (overrides QUADRO_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides QUADRO_LOG_LEVEL)")
}

// loadConfig resolves settings from file, environment and flags.
func loadConfig() error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	c.Override(storeDir, dbURL, logLevel)
	cfg = c
	logger.SetLevel(notify.ParseLevel(cfg.LogLevel))
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

// connectDB initializes the database pool. Call from subcommands that need DB access.
func connectDB() error {
	if pool != nil {
		return nil
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set (use --db flag or .env)")
	}

	var err error
	pool, err = db.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	return nil
}

// openStores returns the primary and backup tiers. The backup tier is
// optional and left nil when its directory cannot be created.
func openStores() (primary, backup kv.Store, err error) {
	if cfg.DatabaseURL != "" {
		if err := connectDB(); err != nil {
			return nil, nil, err
		}
		store := db.NewStore(pool, cfg.Namespace)
		primary = store
		logger.Debug("using database store", "namespace", store.Namespace())
	} else {
		dir, err := kv.NewDir(cfg.Store, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("opening store: %w", err)
		}
		primary = dir
		logger.Debug("using directory store", "path", cfg.Store)
	}

	backupDir := cfg.BackupPath()
	if dir, err := kv.NewDir(backupDir, cfg.BackupTTL.Duration); err != nil {
		logger.Warn("backup store unavailable", "path", backupDir, "err", err)
	} else {
		backup = dir
	}
	return primary, backup, nil
}

// openBoard recovers the saved board. Outcomes are reported to n.
func openBoard(n notify.Notifier) (*board.Board, error) {
	primary, backup, err := openStores()
	if err != nil {
		return nil, err
	}
	p := persist.New(primary, backup, n, logger)
	b := board.New(p, n)
	b.Load(p)
	logger.Debug("board loaded", "from", p.RecoveredFrom())
	return b, nil
}

// cliNotifier logs outcomes to stderr. Errors are skipped because the
// command returns them and cobra prints them.
type cliNotifier struct {
	log *notify.LogNotifier
}

func (n cliNotifier) Notify(message string, severity notify.Severity, d time.Duration) {
	if severity == notify.Error {
		return
	}
	n.log.Notify(message, severity, d)
}

func newCLINotifier() notify.Notifier {
	return cliNotifier{log: &notify.LogNotifier{Logger: logger}}
}

// projectRef returns the project given by flag, falling back to the configured default.
func projectRef(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Project
}

func main() {
	_ = godotenv.Load()

	err := rootCmd.Execute()

	if pool != nil {
		pool.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
