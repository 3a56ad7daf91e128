package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

var (
	// Global flags
	debug   bool
	cfgFile string

	// v holds defaults, the config file, MACMOLE_* env and bound flags.
	v        = config.NewViper()
	settings *config.Settings

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "mm",
	Short: "Reclaim disk space on your Mac",
	Long: `macmole - Reclaim disk space on your Mac.

Clears caches, logs, developer leftovers, package manager caches,
local Time Machine snapshots and the Trash, then reports how much
space came back. Running mm without a subcommand runs clean.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runClean,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/macmole/config.toml)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addCleanFlags(rootCmd)

	// Register all subcommands
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"yes":     config.KeyAssumeYes,
	"dry-run": config.KeyDryRun,
	"skip":    config.KeySkipSections,
}

// setup installs the logger and loads settings for the command about to run.
func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	s, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	settings = s
	if s.ConfigFile != "" {
		slog.Debug("loaded config", "file", s.ConfigFile)
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
