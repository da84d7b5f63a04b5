package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vcampelo/zaporder/internal/config"
)

var resetSettings bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the effective settings as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resetSettings {
			settings = config.Defaults()
			if err := config.Save(paths.SettingsFile, settings); err != nil {
				return err
			}
			cmd.Println("settings reset to defaults")
		}

		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	settingsCmd.Flags().BoolVar(&resetSettings, "reset", false, "restore the default settings")
	rootCmd.AddCommand(settingsCmd)
}
