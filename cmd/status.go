package cmd

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcampelo/zaporder/internal/dedup"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and today's processed-contact count",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("Data dir: %s\n", paths.Root)
		cmd.Printf("Message title: %s\n", orNone(settings.MsgTitle))
		cmd.Printf("Message lines: %d\n", len(settings.MessageLines()))
		cmd.Printf("Wait before send: %ds\n", settings.WaitSeconds())
		cmd.Printf("Visible browser: %v\n", settings.ForceVisible)
		cmd.Printf("Logging: %v\n", settings.LogOn)
		cmd.Printf("Check sent messages: %v\n", settings.CheckMessages)

		stamp, count, err := peekDedup(paths.DedupFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				cmd.Println("Contacts today: none recorded yet")
				return nil
			}
			return err
		}
		if stamp != time.Now().Format(dedup.DateLayout) {
			cmd.Printf("Contacts today: 0 (last run was %s, %d contacts)\n", stamp, count)
			return nil
		}
		cmd.Printf("Contacts today: %d\n", count)
		return nil
	},
}

// peekDedup reads the dedup file without triggering the daily rollover a
// real open performs; status must not mutate run state.
func peekDedup(path string) (stamp string, count int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "", 0, os.ErrNotExist
	}
	return lines[0], len(lines) - 1, nil
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
