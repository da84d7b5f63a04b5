package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/vcampelo/zaporder/internal/tui"
)

var plainLogs bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the automation log",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(paths.LogFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				cmd.Println("log is empty (enable log_on to record activity)")
				return nil
			}
			return err
		}
		if len(data) == 0 {
			cmd.Println("log is empty")
			return nil
		}

		if plainLogs || !term.IsTerminal(os.Stdin.Fd()) {
			cmd.Print(string(data))
			return nil
		}
		return tui.RunLogView(string(data), paths.LogFile)
	},
}

func init() {
	logsCmd.Flags().BoolVar(&plainLogs, "plain", false, "plain text output instead of the viewer")
	rootCmd.AddCommand(logsCmd)
}
