package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/vcampelo/zaporder/internal/config"
	"github.com/vcampelo/zaporder/internal/logx"
)

// dataDir overrides the XDG data root when set via --data-dir.
var dataDir string

// paths, settings and logger are populated in PersistentPreRunE and shared
// by every subcommand.
var (
	paths    config.Paths
	settings config.Settings
	logger   *logx.Logger
)

var rootCmd = &cobra.Command{
	Use:   "zaporder",
	Short: "Send automatic WhatsApp confirmations for new Whatsmenu orders",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		root := dataDir
		if root == "" {
			var err error
			root, err = config.DefaultRoot()
			if err != nil {
				return fmt.Errorf("locating data directory: %w", err)
			}
		}

		var err error
		paths, err = config.NewPaths(root)
		if err != nil {
			return err
		}

		// First run: no settings file yet. Offer the wizard when we have an
		// interactive terminal; the setup command handles its own flow.
		_, statErr := os.Stat(paths.SettingsFile)
		firstRun := errors.Is(statErr, os.ErrNotExist)
		if firstRun && cmd.Name() != "setup" && term.IsTerminal(os.Stdin.Fd()) {
			fmt.Println()
			fmt.Println("  Bem-vindo ao zaporder! Parece ser a primeira execução.")
			if err := runSetup(true); err != nil && !errors.Is(err, errSetupSkipped) {
				return err
			}
		}

		settings, err = config.Load(paths.SettingsFile)
		if err != nil {
			var perr *config.ParseError
			if !errors.As(err, &perr) {
				return err
			}
			// Load already backed the broken file up and reseeded defaults.
			cmd.PrintErrf("settings file was unreadable; defaults restored (backup at %s.backup)\n", paths.SettingsFile)
		}

		logger = logx.New(paths.LogFile, settings.LogOn)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"data directory (default: $XDG_DATA_HOME/zaporder)")
}
