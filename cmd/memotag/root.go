// ABOUTME: Root command for the memotag CLI.
// ABOUTME: Loads config, builds the logger and opens the notebook for subcommands.

package main

import (
	"fmt"

	"github.com/harper/memotag/internal/config"
	"github.com/harper/memotag/internal/notebook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global flag values.
var (
	flagConfigDir string
	flagDBPath    string
	flagVerbose   bool
)

var (
	appConfig *config.Config
	logger    *zap.Logger
	nb        *notebook.Notebook
)

var rootCmd = &cobra.Command{
	Use:           "memotag",
	Short:         "Markdown notes with reconciled tags",
	Long:          `memotag stores notes in SQLite and keeps each note's tags in sync with the tags you give it on every save.`,
	Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsSetup(cmd) {
			return nil
		}
		zc := zap.NewProductionConfig()
		if flagVerbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		configDir := flagConfigDir
		if configDir == "" {
			configDir = config.Dir()
		}
		appConfig, err = config.Load(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dbPath := flagDBPath
		if dbPath == "" {
			dbPath = appConfig.DBPath()
		}
		nb, err = notebook.Open(cmd.Context(), appConfig, dbPath, logger)
		if err != nil {
			return fmt.Errorf("failed to open notebook: %w", err)
		}
		return nil
	},
}

// skipsSetup reports whether cmd is cobra's help or shell completion, which
// need neither config nor a database.
func skipsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/memotag)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "database path (default: <data_dir>/memotag.db)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log debug output to stderr")
}

// Execute runs the CLI and releases the notebook and logger, also when the
// command failed.
func Execute() error {
	err := rootCmd.Execute()
	if nb != nil {
		if cerr := nb.Close(); cerr != nil {
			logger.Warn("close notebook", zap.Error(cerr))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}
