package cmd

import (
	"fmt"

	"github.com/abhisek/mathapp/internal/config"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathapp",
	Short: "Math practice lessons for kids",
	Long:  "Mathapp serves arithmetic lessons over HTTP and lets learners practise them in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHAPP_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration from --config, .env and MATHAPP_* vars.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db config key, then MATHAPP_DB / the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the SQLite store selected by flags and config.
func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// clientLogger returns a logger for terminal commands. Output goes to the
// configured file so it does not draw over the TUI; without one, logs are
// dropped.
func clientLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.Log.File == "" {
		return logger.Nop(), nil
	}
	if err := store.EnsureDir(cfg.Log.File); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return logger.New(cfg.Env, cfg.Log.File)
}
