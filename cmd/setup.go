package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/vcampelo/zaporder/internal/config"
	"github.com/vcampelo/zaporder/internal/tui"
)

// errSetupSkipped reports that the wizard could not run because stdin is
// not a terminal. First runs continue with defaults in that case.
var errSetupSkipped = errors.New("setup requires an interactive terminal")

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure zaporder (re-run anytime to edit settings)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(false)
	},
}

// runSetup opens the settings wizard and persists the result. If firstRun
// is true a welcome message is shown.
func runSetup(firstRun bool) error {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return errSetupSkipped
	}
	if firstRun {
		fmt.Println("  Vamos configurar a mensagem automática.")
		fmt.Println()
	}

	existing, err := config.Load(paths.SettingsFile)
	if err != nil {
		var perr *config.ParseError
		if !errors.As(err, &perr) {
			return err
		}
	}

	edited, err := tui.RunSetup(existing)
	if err != nil {
		if errors.Is(err, tui.ErrSetupCanceled) {
			fmt.Println("  Configuração cancelada; nada foi alterado.")
			return nil
		}
		return err
	}

	if err := config.Save(paths.SettingsFile, edited); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	fmt.Println("  ✓ Configurações salvas.")
	fmt.Println("  Execute 'zaporder run' para iniciar a automação.")
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
